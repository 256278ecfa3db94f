package sidecar

import (
	"fmt"
	"math"
)

// DMS renders decimal degrees the way exiftool prints GPS coordinates, for
// example `51 deg 30' 12.86" N`. The hemisphere letter follows the sign.
func DMS(latitude, longitude float64) (lat, lon string) {
	return dmsString(latitude, "N", "S"), dmsString(longitude, "E", "W")
}

// hemisphereRefs returns the long-form GPS reference names by sign.
func hemisphereRefs(latitude, longitude float64) (latRef, lonRef string) {
	latRef, lonRef = "North", "East"
	if latitude < 0 {
		latRef = "South"
	}
	if longitude < 0 {
		lonRef = "West"
	}
	return latRef, lonRef
}

func dmsString(value float64, positive, negative string) string {
	ref := positive
	if value < 0 {
		ref = negative
	}
	abs := math.Abs(value)
	deg := math.Floor(abs)
	minutes := math.Floor((abs - deg) * 60)
	seconds := (abs - deg - minutes/60) * 3600

	// Carry when rounding to hundredths reaches a full minute.
	if math.Round(seconds*100) >= 6000 {
		seconds = 0
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		deg++
	}
	return fmt.Sprintf("%d deg %d' %.2f\" %s", int(deg), int(minutes), seconds, ref)
}
