package sidecar

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
	"time"

	"darkroom/internal/photos"
)

//go:embed xmp.tmpl
var xmpTemplateText string

var xmpTemplate = template.Must(template.New("xmp").Funcs(template.FuncMap{
	"xml": xmlEscape,
}).Parse(xmpTemplateText))

const xmpCalendarLayout = "2006-01-02T15:04:05"

type xmpData struct {
	Description string
	Title       string
	Subject     []string
	Persons     []string
	Keywords    []string
	DateCreated string
	CreateDate  string
	ModifyDate  string
}

// XMP renders the XMP sidecar for asset. Blank lines are removed from the
// output and the result carries no trailing newline.
func XMP(asset *photos.AssetRecord) ([]byte, error) {
	if asset == nil {
		return nil, fmt.Errorf("xmp sidecar: nil asset")
	}

	captured := asset.CaptureTime()
	modified, ok := asset.ModifiedTime()
	if !ok {
		modified = captured
	}

	data := xmpData{
		Description: asset.Description,
		Title:       asset.Title,
		Subject:     subject(asset),
		Persons:     asset.Persons,
		Keywords:    asset.Keywords,
		DateCreated: isoTimestamp(captured),
		CreateDate:  captured.Format(xmpCalendarLayout),
		ModifyDate:  modified.Format(xmpCalendarLayout),
	}

	var buf bytes.Buffer
	if err := xmpTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("xmp sidecar: %w", err)
	}
	return stripBlankLines(buf.Bytes()), nil
}

// isoTimestamp matches Python's isoformat: microseconds only when non-zero.
func isoTimestamp(t time.Time) string {
	if t.Nanosecond()/1000 != 0 {
		return t.Format("2006-01-02T15:04:05.000000-07:00")
	}
	return t.Format("2006-01-02T15:04:05-07:00")
}

func stripBlankLines(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return []byte(strings.Join(kept, "\n"))
}

func xmlEscape(value string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(value)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
