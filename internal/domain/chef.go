package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Chef struct {
	bun.BaseModel `bun:"table:chefs,alias:c"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	DisplayName    string    `bun:"display_name,notnull"`
	Address        string    `bun:"address,notnull"`
	MaxServingSize int       `bun:"max_serving_size,notnull"`
	Deleted        bool      `bun:"is_deleted,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

func (c *Chef) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &c.ID, &c.CreatedAt, &c.UpdatedAt)
}

type Dish struct {
	bun.BaseModel `bun:"table:dishes,alias:d"`

	ID              uuid.UUID `bun:"id,pk,type:uuid"`
	ChefID          uuid.UUID `bun:"chef_id,notnull,type:uuid"`
	Name            string    `bun:"name,notnull"`
	CookTimeMinutes int       `bun:"cook_time_minutes,notnull"`
	ServingSize     int       `bun:"serving_size,notnull"`
	Deleted         bool      `bun:"is_deleted,notnull"`
	CreatedAt       time.Time `bun:"created_at,notnull"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`
}

func (d *Dish) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &d.ID, &d.CreatedAt, &d.UpdatedAt)
}

type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ChefID    uuid.UUID `bun:"chef_id,notnull,type:uuid"`
	Name      string    `bun:"name,notnull"`
	Deleted   bool      `bun:"is_deleted,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (m *Menu) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &m.ID, &m.CreatedAt, &m.UpdatedAt)
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	MenuID uuid.UUID `bun:"menu_id,pk,type:uuid"`
	DishID uuid.UUID `bun:"dish_id,pk,type:uuid"`
}
