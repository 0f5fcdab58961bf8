package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository is the durable option store backed by monitor_options
type PreferenceRepository struct {
	DB *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

// Get decodes the option into dest. It reports false when the option is unset.
func (r *PreferenceRepository) Get(ctx context.Context, key string, dest any) (bool, error) {
	query := `
		SELECT option_value
		FROM monitor_options
		WHERE option_key = $1
	`

	var raw []byte
	err := r.DB.QueryRow(ctx, query, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("decode option %s: %w", key, err)
	}
	return true, nil
}

// Set creates or replaces an option
func (r *PreferenceRepository) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode option %s: %w", key, err)
	}

	query := `
		INSERT INTO monitor_options (option_key, option_value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (option_key)
		DO UPDATE SET option_value = $2, updated_at = CURRENT_TIMESTAMP
	`

	_, err = r.DB.Exec(ctx, query, key, raw)
	return err
}

// Delete removes an option; deleting a missing option is not an error
func (r *PreferenceRepository) Delete(ctx context.Context, key string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM monitor_options WHERE option_key = $1`, key)
	return err
}

// Keys lists every stored option key
func (r *PreferenceRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT option_key FROM monitor_options ORDER BY option_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
