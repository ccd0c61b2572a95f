package vapix

import (
	"context"
	"fmt"
)

// DeviceProperties is the fixed property set served by the basic device
// info API. Field names mirror what the device sends.
type DeviceProperties struct {
	Brand            string `json:"Brand"`
	HardwareID       string `json:"HardwareID"`
	ProductFullName  string `json:"ProdFullName"`
	ProductNumber    string `json:"ProdNbr"`
	ProductShortName string `json:"ProdShortName"`
	ProductType      string `json:"ProdType"`
	ProductVariant   string `json:"ProdVariant"`
	SerialNumber     string `json:"SerialNumber"`
	Soc              string `json:"Soc"`
	SocArchitecture  string `json:"Architecture"`
	SocSerialNumber  string `json:"SocSerialNumber"`
	FirmwareBuild    string `json:"BuildDate"`
	FirmwareVersion  string `json:"Version"`
	WebURL           string `json:"WebURL"`
}

// propertyList names every property the API knows how to return; asking
// for an unknown one fails the whole call, so the list is pinned.
var propertyList = []string{
	"Architecture",
	"Brand",
	"BuildDate",
	"HardwareID",
	"ProdFullName",
	"ProdNbr",
	"ProdShortName",
	"ProdType",
	"ProdVariant",
	"SerialNumber",
	"Soc",
	"SocSerialNumber",
	"Version",
	"WebURL",
}

// DeviceInfo retrieves the device's basic properties: brand, model,
// serial number, SoC, and firmware version.
func (d *Device) DeviceInfo(ctx context.Context) (*DeviceProperties, error) {
	params := struct {
		PropertyList []string `json:"propertyList"`
	}{PropertyList: propertyList}

	var data struct {
		PropertyList DeviceProperties `json:"propertyList"`
	}
	if err := d.jsonCall(ctx, "/axis-cgi/basicdeviceinfo.cgi", "1.0", "getProperties", params, &data); err != nil {
		return nil, fmt.Errorf("get device info: %w", err)
	}
	return &data.PropertyList, nil
}
