package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

// settingsKey is the single row holding the global configuration blob.
const settingsKey = "global"

// SettingsRepository is the remote tier of the tiered configuration. The
// configuration is one jsonb blob; dropdown vocabularies are one row each.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get loads the global settings blob. A missing row reads as zero-valued
// settings: the service's default tier takes over.
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	db := GetDBTX(ctx, r.pool)

	var payload []byte
	err := db.QueryRow(ctx, `SELECT payload FROM app_settings WHERE key = $1`, settingsKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, err
	}

	var settings domain.Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// Save upserts the global settings blob.
func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	db := GetDBTX(ctx, r.pool)
	_, err = db.Exec(ctx, `
	INSERT INTO app_settings (key, payload, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		settingsKey, payload)
	return err
}

// GetDropdown loads one named vocabulary.
func (r *SettingsRepository) GetDropdown(ctx context.Context, name string) (domain.DropdownSet, error) {
	db := GetDBTX(ctx, r.pool)

	var set domain.DropdownSet
	err := db.QueryRow(ctx,
		`SELECT name, options, updated_at FROM dropdown_options WHERE name = $1`, name).
		Scan(&set.Name, &set.Options, &set.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DropdownSet{}, apperrors.ErrNotFound
		}
		return domain.DropdownSet{}, err
	}
	return set, nil
}

// SaveDropdown upserts one named vocabulary.
func (r *SettingsRepository) SaveDropdown(ctx context.Context, set domain.DropdownSet) error {
	db := GetDBTX(ctx, r.pool)
	_, err := db.Exec(ctx, `
	INSERT INTO dropdown_options (name, options, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET options = EXCLUDED.options, updated_at = EXCLUDED.updated_at`,
		set.Name, set.Options, set.UpdatedAt)
	return err
}

// ListDropdowns returns every stored vocabulary.
func (r *SettingsRepository) ListDropdowns(ctx context.Context) ([]domain.DropdownSet, error) {
	db := GetDBTX(ctx, r.pool)
	rows, err := db.Query(ctx, `SELECT name, options, updated_at FROM dropdown_options ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []domain.DropdownSet
	for rows.Next() {
		var set domain.DropdownSet
		if err := rows.Scan(&set.Name, &set.Options, &set.UpdatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}
