package destinations

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository is the storage contract for the catalog. The service depends
// on this interface so tests can substitute a mock.
type Repository interface {
	List(ctx context.Context) ([]Destination, error)
	GetBySlug(ctx context.Context, slug string) (*Destination, error)
}

// MariaDBRepository implements Repository against MariaDB.
type MariaDBRepository struct {
	db *sql.DB
}

// NewRepository creates a MariaDB-backed repository.
func NewRepository(db *sql.DB) *MariaDBRepository {
	return &MariaDBRepository{db: db}
}

// List returns every destination in display order.
func (r *MariaDBRepository) List(ctx context.Context) ([]Destination, error) {
	const query = `
		SELECT id, name, slug, lat, lng, tagline, description, sort_order
		FROM destinations
		ORDER BY sort_order, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing destinations: %w", err)
	}
	defer rows.Close()

	var out []Destination
	for rows.Next() {
		var d Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Lat, &d.Lng,
			&d.Tagline, &d.Description, &d.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning destination: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating destinations: %w", err)
	}

	return out, nil
}

// GetBySlug returns one destination, or sql.ErrNoRows wrapped when missing.
func (r *MariaDBRepository) GetBySlug(ctx context.Context, slug string) (*Destination, error) {
	const query = `
		SELECT id, name, slug, lat, lng, tagline, description, sort_order
		FROM destinations
		WHERE slug = ?`

	var d Destination
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&d.ID, &d.Name, &d.Slug,
		&d.Lat, &d.Lng, &d.Tagline, &d.Description, &d.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("fetching destination %q: %w", slug, err)
	}

	return &d, nil
}
