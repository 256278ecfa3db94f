package catalog

import (
	"database/sql"
	"time"

	"darkroom/internal/photos"
)

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*photos.AssetRecord, error) {
	var (
		uuid           string
		filename       string
		original       sql.NullString
		kind           string
		uti            sql.NullString
		directory      sql.NullString
		volume         sql.NullString
		editResource   sql.NullInt64
		liveModel      sql.NullInt64
		burstUUID      sql.NullString
		missing        int
		hasAdjustments int
		shared         int
		cloudAsset     int
		burst          int
		livePhoto      int
		favorite       int
		hidden         int
		externalEdit   int
		inCloud        sql.NullInt64
		tzOffset       int
		dateRaw        string
		modifiedRaw    sql.NullString
		lat            sql.NullFloat64
		lon            sql.NullFloat64
		title          sql.NullString
		description    sql.NullString
	)

	if err := scanner.Scan(
		&uuid,
		&filename,
		&original,
		&kind,
		&uti,
		&directory,
		&volume,
		&editResource,
		&liveModel,
		&burstUUID,
		&missing,
		&hasAdjustments,
		&shared,
		&cloudAsset,
		&burst,
		&livePhoto,
		&favorite,
		&hidden,
		&externalEdit,
		&inCloud,
		&tzOffset,
		&dateRaw,
		&modifiedRaw,
		&lat,
		&lon,
		&title,
		&description,
	); err != nil {
		return nil, err
	}

	asset := &photos.AssetRecord{
		UUID:             uuid,
		Filename:         filename,
		OriginalFilename: original.String,
		Kind:             photos.ParseKind(kind),
		UTI:              uti.String,
		BurstUUID:        burstUUID.String,
		Directory:        directory.String,
		Volume:           volume.String,
		TimezoneOffset:   tzOffset,
		Date:             parseTime(dateRaw),
		Title:            title.String,
		Description:      description.String,
		Flags: photos.Flags{
			Missing:        missing != 0,
			HasAdjustments: hasAdjustments != 0,
			Shared:         shared != 0,
			CloudAsset:     cloudAsset != 0,
			Burst:          burst != 0,
			LivePhoto:      livePhoto != 0,
			Favorite:       favorite != 0,
			Hidden:         hidden != 0,
			ExternalEdit:   externalEdit != 0,
		},
	}
	if editResource.Valid {
		id := editResource.Int64
		asset.EditResourceID = &id
	}
	if liveModel.Valid {
		id := liveModel.Int64
		asset.LiveModelID = &id
	}
	if inCloud.Valid {
		v := inCloud.Int64 != 0
		asset.InCloud = &v
	}
	if modifiedRaw.Valid && modifiedRaw.String != "" {
		modified := parseTime(modifiedRaw.String)
		asset.DateModified = &modified
	}
	if lat.Valid && lon.Valid {
		asset.Location = &photos.Location{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	return asset, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return boolToInt(*value)
}

func nullableTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
