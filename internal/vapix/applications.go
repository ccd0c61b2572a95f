package vapix

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Application is one ACAP package installed on the device.
type Application struct {
	Name              string `xml:"Name,attr"`
	NiceName          string `xml:"NiceName,attr"`
	Vendor            string `xml:"Vendor,attr"`
	Version           string `xml:"Version,attr"`
	ApplicationID     string `xml:"ApplicationID,attr"`
	License           string `xml:"License,attr"`
	Status            string `xml:"Status,attr"`
	ConfigurationPage string `xml:"ConfigurationPage,attr"`
}

// Applications lists the ACAP packages installed on the device.
func (d *Device) Applications(ctx context.Context) ([]Application, error) {
	body, _, err := d.roundtrip(ctx, http.MethodGet, "/axis-cgi/applications/list.cgi", "text/xml", "", nil)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", mapNotFound(err))
	}

	var resp struct {
		Result       string        `xml:"result,attr"`
		Applications []Application `xml:"application"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode application list: %w", err)
	}
	if resp.Result != "" && resp.Result != "ok" {
		return nil, fmt.Errorf("list applications: device said %q", resp.Result)
	}
	return resp.Applications, nil
}

// UploadApplication installs an ACAP package from r. The endpoint
// expects a fixed multipart shape: boundary "fileboundary", one field
// named "packfil" with filename "application.eap". The body is
// assembled by hand to keep those bytes exact.
func (d *Device) UploadApplication(ctx context.Context, r io.Reader) error {
	pkg, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read application package: %w", err)
	}

	var body bytes.Buffer
	body.WriteString("--fileboundary\r\n" +
		"Content-Disposition: form-data; name=\"packfil\"; filename=\"application.eap\"\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"\r\n")
	body.Write(pkg)
	body.WriteString("\r\n--fileboundary--\r\n\r\n")

	reply, _, err := d.roundtrip(ctx, http.MethodPost, "/axis-cgi/applications/upload.cgi",
		"text/plain", "multipart/form-data; boundary=fileboundary", &body)
	if err != nil {
		return fmt.Errorf("upload application: %w", mapNotFound(err))
	}
	if !strings.HasPrefix(string(reply), "OK") {
		return fmt.Errorf("upload application: device said %q", strings.TrimSpace(string(reply)))
	}
	return nil
}

// ControlApplication starts, stops, or removes an installed package.
// action is one of "start", "stop", "remove".
func (d *Device) ControlApplication(ctx context.Context, action, pkg string) error {
	form := url.Values{"action": {action}, "package": {pkg}}
	reply, _, err := d.roundtrip(ctx, http.MethodPost, "/axis-cgi/applications/control.cgi",
		"text/plain", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%s application %s: %w", action, pkg, mapNotFound(err))
	}
	if trimmed := strings.TrimSpace(string(reply)); trimmed != "OK" {
		return fmt.Errorf("%s application %s: device said %q", action, pkg, trimmed)
	}
	return nil
}

// ApplicationPlatform describes the device's ACAP runtime, gathered
// from the parameter tree.
type ApplicationPlatform struct {
	EmbeddedDevelopmentVersion string
	FirmwareVersion            string
	Soc                        string
	Architecture               string
}

// Platform reads the application platform properties. Devices without
// embedded development support report ErrUnsupportedFeature.
func (d *Device) Platform(ctx context.Context) (*ApplicationPlatform, error) {
	params, err := d.Parameters(ctx,
		"Properties.EmbeddedDevelopment.Version",
		"Properties.Firmware.Version",
		"Properties.System.Soc",
		"Properties.System.Architecture",
	)
	if err != nil {
		return nil, err
	}

	edv, ok := params["Properties.EmbeddedDevelopment.Version"]
	if !ok {
		return nil, ErrUnsupportedFeature
	}
	return &ApplicationPlatform{
		EmbeddedDevelopmentVersion: edv,
		FirmwareVersion:            params["Properties.Firmware.Version"],
		Soc:                        params["Properties.System.Soc"],
		Architecture:               params["Properties.System.Architecture"],
	}, nil
}
