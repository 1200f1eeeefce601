// Package records provides the storage backends for the ramen record
// collection: PostgreSQL for production and an in-memory map for tests.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ramen-kiroku/ramenlog/internal/common"
	"github.com/ramen-kiroku/ramenlog/internal/dbx"
	"github.com/ramen-kiroku/ramenlog/internal/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). Menus are stored as a JSONB column.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.Record) error {
	menus, err := json.Marshal(rec.Menus)
	if err != nil {
		return fmt.Errorf("marshal menus: %w", err)
	}

	query := `
		INSERT INTO records
			(id, date, time, prefecture, city, shop_name, ramen_type, menus,
			 business_hours, holidays, links, notes, rating, want_to_return,
			 photo_data_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Date, rec.Time, rec.Prefecture, rec.City, rec.ShopName,
		rec.RamenType, menus, rec.BusinessHours, rec.Holidays, rec.Links,
		rec.Notes, rec.Rating, rec.WantToReturn, rec.PhotoDataURL,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update overwrites the editable fields and the update timestamp of the row
// named by rec.ID. The creation timestamp is left untouched. Returns
// common.ErrorNotFound when the row does not exist.
func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	menus, err := json.Marshal(rec.Menus)
	if err != nil {
		return fmt.Errorf("marshal menus: %w", err)
	}

	query := `
		UPDATE records SET
			date = $2, time = $3, prefecture = $4, city = $5, shop_name = $6,
			ramen_type = $7, menus = $8, business_hours = $9, holidays = $10,
			links = $11, notes = $12, rating = $13, want_to_return = $14,
			photo_data_url = $15, updated_at = $16
		WHERE id = $1;
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Date, rec.Time, rec.Prefecture, rec.City, rec.ShopName,
		rec.RamenType, menus, rec.BusinessHours, rec.Holidays, rec.Links,
		rec.Notes, rec.Rating, rec.WantToReturn, rec.PhotoDataURL, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// SelectAll returns every record ordered by creation time descending, the
// newest first. Ties are broken by id so the order is stable.
func (r *PostgresRepository) SelectAll(ctx context.Context) ([]models.Record, error) {
	query := `
		SELECT id, date, time, prefecture, city, shop_name, ramen_type, menus,
		       business_hours, holidays, links, notes, rating, want_to_return,
		       photo_data_url, created_at, updated_at
		FROM records
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := []models.Record{}
	for rows.Next() {
		var item models.Record
		var menus []byte
		if err := rows.Scan(
			&item.ID, &item.Date, &item.Time, &item.Prefecture, &item.City,
			&item.ShopName, &item.RamenType, &menus, &item.BusinessHours,
			&item.Holidays, &item.Links, &item.Notes, &item.Rating,
			&item.WantToReturn, &item.PhotoDataURL, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(menus) > 0 {
			if err := json.Unmarshal(menus, &item.Menus); err != nil {
				return nil, fmt.Errorf("unmarshal menus: %w", err)
			}
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
