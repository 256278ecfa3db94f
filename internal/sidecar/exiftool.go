package sidecar

import (
	"encoding/json"
	"fmt"

	"darkroom/internal/photos"
)

const (
	exifDateLayout = "2006:01:02 15:04:05"
)

// exifRecord keeps the key order exiftool users expect; encoding/json emits
// struct fields in declaration order.
type exifRecord struct {
	FileName           string   `json:"FileName"`
	ImageDescription   string   `json:"ImageDescription,omitempty"`
	Description        string   `json:"Description,omitempty"`
	Title              string   `json:"Title,omitempty"`
	TagsList           []string `json:"TagsList,omitempty"`
	Keywords           []string `json:"Keywords,omitempty"`
	Subject            []string `json:"Subject,omitempty"`
	PersonInImage      []string `json:"PersonInImage,omitempty"`
	GPSLatitude        string   `json:"GPSLatitude,omitempty"`
	GPSLongitude       string   `json:"GPSLongitude,omitempty"`
	GPSPosition        string   `json:"GPSPosition,omitempty"`
	GPSLatitudeRef     string   `json:"GPSLatitudeRef,omitempty"`
	GPSLongitudeRef    string   `json:"GPSLongitudeRef,omitempty"`
	DateTimeOriginal   string   `json:"DateTimeOriginal"`
	OffsetTimeOriginal string   `json:"OffsetTimeOriginal"`
	ModifyDate         string   `json:"ModifyDate,omitempty"`
}

// ExifToolJSON encodes asset metadata as an exiftool JSON sidecar.
func ExifToolJSON(asset *photos.AssetRecord) ([]byte, error) {
	if asset == nil {
		return nil, fmt.Errorf("exiftool sidecar: nil asset")
	}

	rec := exifRecord{
		FileName:         asset.Filename,
		ImageDescription: asset.Description,
		Description:      asset.Description,
		Title:            asset.Title,
		TagsList:         cloneStrings(asset.Keywords),
		Keywords:         cloneStrings(asset.Keywords),
		Subject:          subject(asset),
		PersonInImage:    cloneStrings(asset.Persons),
	}

	if loc := asset.Location; loc != nil {
		lat, lon := DMS(loc.Latitude, loc.Longitude)
		rec.GPSLatitude = lat
		rec.GPSLongitude = lon
		rec.GPSPosition = lat + ", " + lon
		rec.GPSLatitudeRef, rec.GPSLongitudeRef = hemisphereRefs(loc.Latitude, loc.Longitude)
	}

	captured := asset.CaptureTime()
	rec.DateTimeOriginal = captured.Format(exifDateLayout)
	rec.OffsetTimeOriginal = captured.Format("-07:00")
	if modified, ok := asset.ModifiedTime(); ok {
		rec.ModifyDate = modified.Format(exifDateLayout)
	}

	data, err := json.Marshal([]exifRecord{rec})
	if err != nil {
		return nil, fmt.Errorf("exiftool sidecar: %w", err)
	}
	return data, nil
}

// subject lists keywords followed by persons, matching what Photos writes to
// dc:subject.
func subject(asset *photos.AssetRecord) []string {
	if len(asset.Keywords)+len(asset.Persons) == 0 {
		return nil
	}
	out := make([]string, 0, len(asset.Keywords)+len(asset.Persons))
	out = append(out, asset.Keywords...)
	return append(out, asset.Persons...)
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
