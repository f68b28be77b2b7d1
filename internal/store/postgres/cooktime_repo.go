package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"vietchef/backend/internal/domain"
	"vietchef/backend/internal/store"
)

// DefaultServingSize applies to dishes without a positive serving size.
const DefaultServingSize = 4

// CookTimeRepo estimates cooking durations from the chef's dishes and menus.
type CookTimeRepo struct {
	db *bun.DB
}

func NewCookTimeRepo(db *bun.DB) *CookTimeRepo {
	return &CookTimeRepo{db: db}
}

func (r *CookTimeRepo) TotalCookTime(ctx context.Context, dishIDs []uuid.UUID, guests int) (float64, error) {
	dishes, err := r.dishesByID(ctx, dishIDs)
	if err != nil {
		return 0, err
	}
	return TotalCookHours(dishes, guests), nil
}

// TotalCookTimeFromMenu covers the menu's dishes plus any extra dishes not already on it.
func (r *CookTimeRepo) TotalCookTimeFromMenu(ctx context.Context, menuID uuid.UUID, extraDishIDs []uuid.UUID, guests int) (float64, error) {
	exists, err := r.db.NewSelect().
		Model((*domain.Menu)(nil)).
		Where("m.id = ?", menuID).
		Where("m.is_deleted = false").
		Exists(ctx)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("menu %s: %w", menuID, store.ErrNotFound)
	}

	var dishes []domain.Dish
	err = r.db.NewSelect().
		Model(&dishes).
		Join("JOIN menu_items AS mi ON mi.dish_id = d.id").
		Where("mi.menu_id = ?", menuID).
		Where("d.is_deleted = false").
		Scan(ctx)
	if err != nil {
		return 0, err
	}

	extras, err := r.dishesByID(ctx, extraDishIDs)
	if err != nil {
		return 0, err
	}
	return TotalCookHours(mergeDishes(dishes, extras), guests), nil
}

// MaxCookTime assumes the chef cooks their maxDishes longest dishes.
func (r *CookTimeRepo) MaxCookTime(ctx context.Context, chefID uuid.UUID, maxDishes, guests int) (float64, error) {
	if maxDishes <= 0 {
		return 0, nil
	}
	var dishes []domain.Dish
	err := r.db.NewSelect().
		Model(&dishes).
		Where("d.chef_id = ?", chefID).
		Where("d.is_deleted = false").
		OrderExpr("d.cook_time_minutes DESC").
		Limit(maxDishes).
		Scan(ctx)
	if err != nil {
		return 0, err
	}
	return TotalCookHours(dishes, guests), nil
}

func (r *CookTimeRepo) dishesByID(ctx context.Context, ids []uuid.UUID) ([]domain.Dish, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var dishes []domain.Dish
	err := r.db.NewSelect().
		Model(&dishes).
		Where("d.id IN (?)", bun.In(ids)).
		Where("d.is_deleted = false").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(dishes) != len(ids) {
		return nil, fmt.Errorf("dishes: found %d of %d: %w", len(dishes), len(ids), store.ErrNotFound)
	}
	return dishes, nil
}

// ScaleFactor grows cooking time by 10% per extra serving batch beyond the dish's serving size.
func ScaleFactor(guests, servingSize int) float64 {
	if servingSize <= 0 {
		servingSize = DefaultServingSize
	}
	extra := guests - servingSize
	if extra <= 0 {
		return 1
	}
	batches := (extra + servingSize - 1) / servingSize
	return 1 + 0.1*float64(batches)
}

func TotalCookHours(dishes []domain.Dish, guests int) float64 {
	var minutes float64
	for _, d := range dishes {
		minutes += float64(d.CookTimeMinutes) * ScaleFactor(guests, d.ServingSize)
	}
	return minutes / 60
}

func mergeDishes(base, extra []domain.Dish) []domain.Dish {
	seen := make(map[uuid.UUID]struct{}, len(base))
	out := make([]domain.Dish, 0, len(base)+len(extra))
	for _, list := range [][]domain.Dish{base, extra} {
		for _, d := range list {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
