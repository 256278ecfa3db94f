package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"darkroom/internal/logging"
	"darkroom/internal/photos"
	"darkroom/internal/services"
)

const assetColumns = "uuid, filename, original_filename, kind, uti, directory, volume, edit_resource_id, live_model_id, burst_uuid, missing, has_adjustments, shared, cloud_asset, burst, live_photo, favorite, hidden, external_edit, in_cloud, timezone_offset, date, date_modified, latitude, longitude, title, description"

// listTables holds the ordered string lists attached to an asset.
var listTables = []string{"asset_keywords", "asset_persons", "asset_albums"}

// Put inserts or replaces asset and its keyword, person, and album lists.
func (s *Store) Put(ctx context.Context, asset *photos.AssetRecord) error {
	if asset == nil {
		return errors.New("asset is nil")
	}
	if strings.TrimSpace(asset.UUID) == "" {
		return services.Wrap(services.ErrInvalidOptions, "catalog", "put", "asset uuid required", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM assets WHERE uuid = ?", asset.UUID); err != nil {
		return fmt.Errorf("clear asset %s: %w", asset.UUID, err)
	}
	for _, table := range listTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE uuid = ?", asset.UUID); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, asset.UUID, err)
		}
	}

	var lat, lon sql.NullFloat64
	if asset.Location != nil {
		lat = sql.NullFloat64{Float64: asset.Location.Latitude, Valid: true}
		lon = sql.NullFloat64{Float64: asset.Location.Longitude, Valid: true}
	}
	flags := asset.Flags
	_, err = tx.ExecContext(ctx,
		`INSERT INTO assets (`+assetColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.UUID,
		asset.Filename,
		nullableString(asset.OriginalFilename),
		asset.Kind.String(),
		nullableString(asset.UTI),
		nullableString(asset.Directory),
		nullableString(asset.Volume),
		nullableInt(asset.EditResourceID),
		nullableInt(asset.LiveModelID),
		nullableString(asset.BurstUUID),
		boolToInt(flags.Missing),
		boolToInt(flags.HasAdjustments),
		boolToInt(flags.Shared),
		boolToInt(flags.CloudAsset),
		boolToInt(flags.Burst),
		boolToInt(flags.LivePhoto),
		boolToInt(flags.Favorite),
		boolToInt(flags.Hidden),
		boolToInt(flags.ExternalEdit),
		nullableBool(asset.InCloud),
		asset.TimezoneOffset,
		formatTime(asset.Date),
		nullableTime(asset.DateModified),
		lat,
		lon,
		nullableString(asset.Title),
		nullableString(asset.Description),
	)
	if err != nil {
		return fmt.Errorf("insert asset %s: %w", asset.UUID, err)
	}

	lists := [][]string{asset.Keywords, asset.Persons, asset.Albums}
	for i, table := range listTables {
		for pos, value := range lists[i] {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (uuid, position, value) VALUES (?, ?, ?)",
				asset.UUID, pos, value,
			); err != nil {
				return fmt.Errorf("insert %s for %s: %w", table, asset.UUID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit asset %s: %w", asset.UUID, err)
	}
	return nil
}

// Get fetches one asset by uuid. Unknown uuids yield services.ErrNotFound.
func (s *Store) Get(ctx context.Context, uuid string) (*photos.AssetRecord, error) {
	lib, err := s.libraryOrNil(ctx)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE uuid = ?`, uuid)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "get", "no asset with uuid "+uuid, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	asset.Library = lib
	if err := s.loadLists(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// List returns every asset ordered by capture date, then uuid.
func (s *Store) List(ctx context.Context) ([]*photos.AssetRecord, error) {
	lib, err := s.libraryOrNil(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets ORDER BY date, uuid`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	var assets []*photos.AssetRecord
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		asset.Library = lib
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	_ = rows.Close()

	for _, asset := range assets {
		if err := s.loadLists(ctx, asset); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("assets listed", logging.Int("count", len(assets)))
	return assets, nil
}

// BurstMembers returns the uuids of the other assets sharing asset's burst,
// sorted. Assets outside a burst have no members.
func (s *Store) BurstMembers(ctx context.Context, asset *photos.AssetRecord) ([]string, error) {
	if asset == nil || !asset.Flags.Burst || asset.BurstUUID == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT uuid FROM assets WHERE burst_uuid = ? AND uuid <> ? ORDER BY uuid",
		asset.BurstUUID, asset.UUID,
	)
	if err != nil {
		return nil, fmt.Errorf("burst members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var uuid string
		if err := rows.Scan(&uuid); err != nil {
			return nil, fmt.Errorf("scan burst member: %w", err)
		}
		members = append(members, uuid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate burst members: %w", err)
	}
	return members, nil
}

// libraryOrNil returns the recorded library context, or nil when none has
// been recorded. Records without a context never resolve a path.
func (s *Store) libraryOrNil(ctx context.Context) (*photos.LibraryContext, error) {
	lib, err := s.Library(ctx)
	if errors.Is(err, services.ErrNotFound) {
		s.logger.Warn("catalog has no library context; paths will not resolve",
			logging.String("path", s.path),
		)
		return nil, nil
	}
	return lib, err
}

func (s *Store) loadLists(ctx context.Context, asset *photos.AssetRecord) error {
	targets := []*[]string{&asset.Keywords, &asset.Persons, &asset.Albums}
	for i, table := range listTables {
		values, err := s.loadList(ctx, table, asset.UUID)
		if err != nil {
			return err
		}
		*targets[i] = values
	}
	return nil
}

func (s *Store) loadList(ctx context.Context, table, uuid string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT value FROM "+table+" WHERE uuid = ? ORDER BY position", uuid)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return values, nil
}
