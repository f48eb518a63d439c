package dal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
)

// ReferenceRepository serves the read-only lookup directories: vendors with
// their supported delivery days, item display names, and the meal-type
// category whitelist.
type ReferenceRepository interface {
	GetVendors(ctx context.Context) (map[int]models.Vendor, error)
	GetItemNames(ctx context.Context) (map[int]string, error)
	GetMealTypes(ctx context.Context) ([]models.MealTypeCategory, error)
}

type referenceRepository struct {
	*Repository
}

func NewReferenceRepository(db *sql.DB) ReferenceRepository {
	return &referenceRepository{NewRepository(db)}
}

func (r *referenceRepository) GetVendors(ctx context.Context) (map[int]models.Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			name,
			supported_delivery_days
		FROM vendors`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	vendors := make(map[int]models.Vendor)
	for rows.Next() {
		var vendor models.Vendor
		if err := rows.Scan(&vendor.ID, &vendor.Name, pq.Array(&vendor.SupportedDeliveryDays)); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors[vendor.ID] = vendor
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning vendors: %w", err)
	}

	return vendors, nil
}

// GetItemNames merges the menu-item and meal-item directories into one
// id -> display-name map. On an id collision the menu directory wins.
func (r *referenceRepository) GetItemNames(ctx context.Context) (map[int]string, error) {
	names := make(map[int]string)

	for _, table := range []string{"menu_items", "meal_items"} {
		rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id, name FROM %s`, table))
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", table, err)
		}

		for rows.Next() {
			var id int
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
			}
			if _, ok := names[id]; !ok {
				names[id] = name
			}
		}

		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error after scanning %s: %w", table, err)
		}
		rows.Close()
	}

	return names, nil
}

func (r *referenceRepository) GetMealTypes(ctx context.Context) ([]models.MealTypeCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id,
			meal_type
		FROM meal_type_categories`)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal type categories: %w", err)
	}
	defer rows.Close()

	var categories []models.MealTypeCategory
	for rows.Next() {
		var cat models.MealTypeCategory
		if err := rows.Scan(&cat.ID, &cat.MealType); err != nil {
			return nil, fmt.Errorf("failed to scan meal type category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after scanning meal type categories: %w", err)
	}

	return categories, nil
}
