package vapix

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
)

// Disk describes one storage device: an SD card or a network share.
type Disk struct {
	ID                 string `xml:"diskid,attr"`
	Name               string `xml:"name,attr"`
	TotalSize          uint64 `xml:"totalsize,attr"`
	FreeSize           uint64 `xml:"freesize,attr"`
	CleanupLevel       uint16 `xml:"cleanuplevel,attr"`
	CleanupMaxAge      uint16 `xml:"cleanupmaxage,attr"`
	CleanupPolicy      string `xml:"cleanuppolicy,attr"`
	Locked             YesNo  `xml:"locked,attr"`
	Full               YesNo  `xml:"full,attr"`
	ReadOnly           YesNo  `xml:"readonly,attr"`
	Status             string `xml:"status,attr"`
	Filesystem         string `xml:"filesystem,attr"`
	Group              string `xml:"group,attr"`
	RequiredFilesystem string `xml:"requiredfilesystem,attr"`
	EncryptionEnabled  bool   `xml:"encryptionenabled,attr"`
	DiskEncrypted      bool   `xml:"diskencrypted,attr"`
}

// YesNo is a boolean the disk API spells "yes" or "no". Other attributes
// on the same element use "true"/"false"; both spellings coexist.
type YesNo bool

// UnmarshalXMLAttr implements xml.UnmarshalerAttr.
func (v *YesNo) UnmarshalXMLAttr(attr xml.Attr) error {
	switch attr.Value {
	case "yes":
		*v = true
	case "no":
		*v = false
	default:
		return fmt.Errorf("attribute %s: expected yes or no, got %q", attr.Name.Local, attr.Value)
	}
	return nil
}

// Disks lists the device's storage. The response is XML with one
// attribute-laden element per disk.
func (d *Device) Disks(ctx context.Context) ([]Disk, error) {
	body, _, err := d.roundtrip(ctx, http.MethodGet, "/axis-cgi/disks/list.cgi?diskid=all", "text/xml", "", nil)
	if err != nil {
		return nil, fmt.Errorf("list disks: %w", mapNotFound(err))
	}

	var resp struct {
		Disks []Disk `xml:"disks>disk"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode disk list: %w", err)
	}
	return resp.Disks, nil
}
