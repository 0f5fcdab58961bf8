package repositories

import (
	"context"

	"payments-monitor/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SiteRepository reads the managed site registry
type SiteRepository struct {
	DB *pgxpool.Pool
}

func NewSiteRepository(db *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{DB: db}
}

// ListManagedSites returns every registered site in registration order
func (r *SiteRepository) ListManagedSites(ctx context.Context) ([]models.ManagedSite, error) {
	query := `
		SELECT url, COALESCE(name, '')
		FROM managed_sites
		ORDER BY id
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []models.ManagedSite
	for rows.Next() {
		var s models.ManagedSite
		if err := rows.Scan(&s.URL, &s.Name); err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

// Upsert registers a site or renames an existing one
func (r *SiteRepository) Upsert(ctx context.Context, site models.ManagedSite) error {
	query := `
		INSERT INTO managed_sites (url, name)
		VALUES ($1, $2)
		ON CONFLICT (url)
		DO UPDATE SET name = $2, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.DB.Exec(ctx, query, site.URL, site.Name)
	return err
}

// Delete removes a site from the registry
func (r *SiteRepository) Delete(ctx context.Context, url string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM managed_sites WHERE url = $1`, url)
	return err
}
