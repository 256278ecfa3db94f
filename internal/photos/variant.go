package photos

import (
	"fmt"
	"strings"
)

// Variant selects one of the files associated with an asset.
type Variant int

const (
	VariantOriginal Variant = iota
	VariantEdited
	VariantLiveCompanion
)

func (v Variant) String() string {
	switch v {
	case VariantOriginal:
		return "original"
	case VariantEdited:
		return "edited"
	case VariantLiveCompanion:
		return "live"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Variants lists every variant in display order.
func Variants() []Variant {
	return []Variant{VariantOriginal, VariantEdited, VariantLiveCompanion}
}

// ParseVariant accepts the names produced by Variant.String.
func ParseVariant(value string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "original", "":
		return VariantOriginal, nil
	case "edited":
		return VariantEdited, nil
	case "live", "live_companion", "livecompanion":
		return VariantLiveCompanion, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", value)
	}
}
