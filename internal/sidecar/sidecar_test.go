package sidecar_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"darkroom/internal/photos"
	"darkroom/internal/sidecar"
)

func stJamesPark() *photos.AssetRecord {
	zone := time.FixedZone("", -4*3600)
	modified := time.Date(2019, 12, 1, 11, 43, 45, 0, zone)
	return &photos.AssetRecord{
		UUID:           "DC99FBDD-7A52-4100-A5BB-344131646C30",
		Filename:       "St James Park.jpg",
		Kind:           photos.KindPhoto,
		TimezoneOffset: -4 * 3600,
		Date:           time.Date(2018, 10, 13, 13, 18, 12, 0, time.UTC),
		DateModified:   &modified,
		Location:       &photos.Location{Latitude: 51.50357167, Longitude: -0.1318055},
		Title:          "St. James's Park",
		Keywords:       []string{"London 2018", "St. James's Park", "England", "United Kingdom", "UK", "London"},
	}
}

func pumpkins() *photos.AssetRecord {
	return &photos.AssetRecord{
		UUID:           "8SOE9s0XQVGsuq4ONohTng",
		Filename:       "Pumkins2.jpg",
		Kind:           photos.KindPhoto,
		TimezoneOffset: -4 * 3600,
		Date:           time.Date(2018, 9, 28, 19, 35, 49, 63_000_000, time.UTC),
		Title:          "Can we carry this?",
		Description:    "Girls with pumpkins",
		Keywords:       []string{"Kids"},
		Persons:        []string{"Suzy", "Katie"},
	}
}

func TestDMS(t *testing.T) {
	cases := []struct {
		lat, lon         float64
		wantLat, wantLon string
	}{
		{51.50357167, -0.1318055, `51 deg 30' 12.86" N`, `0 deg 7' 54.50" W`},
		{51.5, -0.13, `51 deg 30' 0.00" N`, `0 deg 7' 48.00" W`},
		{-33.8688, 151.2093, `33 deg 52' 7.68" S`, `151 deg 12' 33.48" E`},
		{0, 0, `0 deg 0' 0.00" N`, `0 deg 0' 0.00" E`},
	}
	for _, tc := range cases {
		gotLat, gotLon := sidecar.DMS(tc.lat, tc.lon)
		if gotLat != tc.wantLat || gotLon != tc.wantLon {
			t.Errorf("DMS(%v, %v) = %q, %q; want %q, %q", tc.lat, tc.lon, gotLat, gotLon, tc.wantLat, tc.wantLon)
		}
	}
}

func TestExifToolJSON(t *testing.T) {
	data, err := sidecar.ExifToolJSON(stJamesPark())
	if err != nil {
		t.Fatalf("ExifToolJSON: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected single-element array, got %d", len(got))
	}
	rec := got[0]

	want := map[string]string{
		"FileName":           "St James Park.jpg",
		"Title":              "St. James's Park",
		"GPSLatitude":        `51 deg 30' 12.86" N`,
		"GPSLongitude":       `0 deg 7' 54.50" W`,
		"GPSPosition":        `51 deg 30' 12.86" N, 0 deg 7' 54.50" W`,
		"GPSLatitudeRef":     "North",
		"GPSLongitudeRef":    "West",
		"DateTimeOriginal":   "2018:10:13 09:18:12",
		"OffsetTimeOriginal": "-04:00",
		"ModifyDate":         "2019:12:01 11:43:45",
	}
	for key, value := range want {
		if rec[key] != value {
			t.Errorf("%s = %v, want %q", key, rec[key], value)
		}
	}
	for _, key := range []string{"TagsList", "Keywords", "Subject"} {
		list, ok := rec[key].([]any)
		if !ok || len(list) != 6 || list[0] != "London 2018" {
			t.Errorf("%s = %v, want the six keywords", key, rec[key])
		}
	}
	for _, key := range []string{"Description", "ImageDescription", "PersonInImage"} {
		if _, ok := rec[key]; ok {
			t.Errorf("expected %s to be omitted when empty", key)
		}
	}
}

func TestExifToolJSONSubjectOrderAndKeyOrder(t *testing.T) {
	asset := pumpkins()
	asset.Location = &photos.Location{Latitude: 51.5, Longitude: -0.13}
	data, err := sidecar.ExifToolJSON(asset)
	if err != nil {
		t.Fatalf("ExifToolJSON: %v", err)
	}

	var got []struct {
		Subject         []string
		PersonInImage   []string
		GPSLatitudeRef  string
		GPSLongitudeRef string
		ModifyDate      *string
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(got[0].Subject, ",") != "Kids,Suzy,Katie" {
		t.Fatalf("expected keywords before persons, got %v", got[0].Subject)
	}
	if strings.Join(got[0].PersonInImage, ",") != "Suzy,Katie" {
		t.Fatalf("unexpected persons %v", got[0].PersonInImage)
	}
	if got[0].GPSLatitudeRef != "North" || got[0].GPSLongitudeRef != "West" {
		t.Fatalf("unexpected refs %q %q", got[0].GPSLatitudeRef, got[0].GPSLongitudeRef)
	}
	if got[0].ModifyDate != nil {
		t.Fatalf("expected no ModifyDate without a modification date")
	}

	raw := string(data)
	order := []string{`"FileName"`, `"ImageDescription"`, `"Description"`, `"Title"`, `"TagsList"`, `"Keywords"`, `"Subject"`, `"PersonInImage"`, `"GPSLatitude"`, `"DateTimeOriginal"`, `"OffsetTimeOriginal"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(raw, key)
		if idx <= last {
			t.Fatalf("key %s out of order in %s", key, raw)
		}
		last = idx
	}
}

func TestXMP(t *testing.T) {
	data, err := sidecar.XMP(pumpkins())
	if err != nil {
		t.Fatalf("XMP: %v", err)
	}

	expected := `<!-- Created with darkroom -->
<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="XMP Core 5.4.0">
<!-- mirrors Photos 5 "Export IPTC as XMP" option -->
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about=""
xmlns:dc="http://purl.org/dc/elements/1.1/"
xmlns:photoshop="http://ns.adobe.com/photoshop/1.0/">
<dc:description>Girls with pumpkins</dc:description>
<dc:title>Can we carry this?</dc:title>
<!-- keywords and persons listed in <dc:subject> as Photos does -->
<dc:subject>
<rdf:Seq>
<rdf:li>Kids</rdf:li>
<rdf:li>Suzy</rdf:li>
<rdf:li>Katie</rdf:li>
</rdf:Seq>
</dc:subject>
<photoshop:DateCreated>2018-09-28T15:35:49.063000-04:00</photoshop:DateCreated>
</rdf:Description>
<rdf:Description rdf:about=''
xmlns:Iptc4xmpExt='http://iptc.org/std/Iptc4xmpExt/2008-02-29/'>
<Iptc4xmpExt:PersonInImage>
<rdf:Bag>
<rdf:li>Suzy</rdf:li>
<rdf:li>Katie</rdf:li>
</rdf:Bag>
</Iptc4xmpExt:PersonInImage>
</rdf:Description>
<rdf:Description rdf:about=''
xmlns:digiKam='http://www.digikam.org/ns/1.0/'>
<digiKam:TagsList>
<rdf:Seq>
<rdf:li>Kids</rdf:li>
</rdf:Seq>
</digiKam:TagsList>
</rdf:Description>
<rdf:Description rdf:about=''
xmlns:xmp='http://ns.adobe.com/xap/1.0/'>
<xmp:CreateDate>2018-09-28T15:35:49</xmp:CreateDate>
<xmp:ModifyDate>2018-09-28T15:35:49</xmp:ModifyDate>
</rdf:Description>
</rdf:RDF>
</x:xmpmeta>`

	gotLines := strings.Split(string(data), "\n")
	wantLines := strings.Split(expected, "\n")
	if len(gotLines) != len(wantLines) {
		t.Fatalf("line count %d, want %d:\n%s", len(gotLines), len(wantLines), data)
	}
	for i := range wantLines {
		if strings.TrimSpace(gotLines[i]) != wantLines[i] {
			t.Fatalf("line %d = %q, want %q", i+1, strings.TrimSpace(gotLines[i]), wantLines[i])
		}
		if strings.TrimSpace(gotLines[i]) == "" {
			t.Fatalf("blank line at %d", i+1)
		}
	}
}

func TestXMPOmitsEmptySectionsAndEscapes(t *testing.T) {
	asset := &photos.AssetRecord{
		UUID:     "A1",
		Filename: "IMG_0001.JPG",
		Title:    "Fish & <Chips>",
		Date:     time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := sidecar.XMP(asset)
	if err != nil {
		t.Fatalf("XMP: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "<dc:title>Fish &amp; &lt;Chips&gt;</dc:title>") {
		t.Fatalf("title not escaped: %s", out)
	}
	for _, absent := range []string{"dc:subject", "PersonInImage", "digiKam:TagsList", "dc:description"} {
		if strings.Contains(out, absent) {
			t.Fatalf("expected %s to be omitted: %s", absent, out)
		}
	}
	if !strings.Contains(out, "<photoshop:DateCreated>2020-01-02T03:04:05+00:00</photoshop:DateCreated>") {
		t.Fatalf("unexpected DateCreated: %s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatal("expected no trailing newline")
	}
}

func TestEncodersRejectNil(t *testing.T) {
	if _, err := sidecar.ExifToolJSON(nil); err == nil {
		t.Fatal("expected error for nil asset (json)")
	}
	if _, err := sidecar.XMP(nil); err == nil {
		t.Fatal("expected error for nil asset (xmp)")
	}
}
