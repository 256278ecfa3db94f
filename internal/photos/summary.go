package photos

import "time"

// Summary is a flat, serializable description of an asset together with its
// resolved variant paths. Absent paths are nil.
type Summary struct {
	UUID             string   `json:"uuid" yaml:"uuid"`
	Filename         string   `json:"filename" yaml:"filename"`
	OriginalFilename string   `json:"original_filename" yaml:"original_filename"`
	Date             string   `json:"date" yaml:"date"`
	Description      string   `json:"description" yaml:"description"`
	Title            string   `json:"title" yaml:"title"`
	Keywords         []string `json:"keywords" yaml:"keywords"`
	Albums           []string `json:"albums" yaml:"albums"`
	Persons          []string `json:"persons" yaml:"persons"`
	Path             *string  `json:"path" yaml:"path"`
	IsMissing        bool     `json:"ismissing" yaml:"ismissing"`
	HasAdjustments   bool     `json:"hasadjustments" yaml:"hasadjustments"`
	ExternalEdit     bool     `json:"external_edit" yaml:"external_edit"`
	Favorite         bool     `json:"favorite" yaml:"favorite"`
	Hidden           bool     `json:"hidden" yaml:"hidden"`
	Latitude         *float64 `json:"latitude" yaml:"latitude"`
	Longitude        *float64 `json:"longitude" yaml:"longitude"`
	PathEdited       *string  `json:"path_edited" yaml:"path_edited"`
	Shared           *bool    `json:"shared" yaml:"shared"`
	IsPhoto          bool     `json:"isphoto" yaml:"isphoto"`
	IsMovie          bool     `json:"ismovie" yaml:"ismovie"`
	UTI              string   `json:"uti" yaml:"uti"`
	Burst            bool     `json:"burst" yaml:"burst"`
	LivePhoto        bool     `json:"live_photo" yaml:"live_photo"`
	PathLivePhoto    *string  `json:"path_live_photo" yaml:"path_live_photo"`
	IsCloudAsset     bool     `json:"iscloudasset" yaml:"iscloudasset"`
	InCloud          *bool    `json:"incloud" yaml:"incloud"`
	DateModified     *string  `json:"date_modified" yaml:"date_modified"`
	BurstMembers     []string `json:"burst_members,omitempty" yaml:"burst_members,omitempty"`
}

// Summarize builds a Summary for a, resolving each variant with r.
// Shared is only reported for current-generation libraries.
func (r *Resolver) Summarize(a *AssetRecord) Summary {
	s := Summary{
		UUID:             a.UUID,
		Filename:         a.Filename,
		OriginalFilename: a.OriginalFilename,
		Date:             a.CaptureTime().Format(time.RFC3339),
		Description:      a.Description,
		Title:            a.Title,
		Keywords:         a.Keywords,
		Albums:           a.Albums,
		Persons:          a.Persons,
		IsMissing:        a.Flags.Missing,
		HasAdjustments:   a.Flags.HasAdjustments,
		ExternalEdit:     a.Flags.ExternalEdit,
		Favorite:         a.Flags.Favorite,
		Hidden:           a.Flags.Hidden,
		IsPhoto:          a.IsPhoto(),
		IsMovie:          a.IsMovie(),
		UTI:              a.UTI,
		Burst:            a.Flags.Burst,
		LivePhoto:        a.Flags.LivePhoto,
		IsCloudAsset:     a.Flags.CloudAsset,
		InCloud:          a.InCloud,
	}
	if a.Location != nil {
		lat, lon := a.Location.Latitude, a.Location.Longitude
		s.Latitude, s.Longitude = &lat, &lon
	}
	if a.generation() >= GenerationCurrent {
		shared := a.Flags.Shared
		s.Shared = &shared
	}
	if modified, ok := a.ModifiedTime(); ok {
		formatted := modified.Format(time.RFC3339)
		s.DateModified = &formatted
	}
	s.Path = optional(r.Path(a))
	s.PathEdited = optional(r.PathEdited(a))
	s.PathLivePhoto = optional(r.PathLivePhoto(a))
	return s
}

func optional(path string, ok bool) *string {
	if !ok {
		return nil
	}
	return &path
}
