package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	BlockedWindowOpens  TimeOfDay = TimeOfDay(8 * time.Hour)
	BlockedWindowCloses TimeOfDay = TimeOfDay(22 * time.Hour)
)

// ScheduleBlock is one recurring weekly working-hour block of a chef.
type ScheduleBlock struct {
	bun.BaseModel `bun:"table:chef_schedules,alias:cs"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ChefID    uuid.UUID `bun:"chef_id,notnull,type:uuid"`
	Weekday   int       `bun:"day_of_week,notnull"`
	StartTime TimeOfDay `bun:"start_time,notnull,type:time"`
	EndTime   TimeOfDay `bun:"end_time,notnull,type:time"`
	Active    bool      `bun:"is_active,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (b ScheduleBlock) IntervalOn(date time.Time) Interval {
	return NewInterval(date, b.StartTime, b.EndTime)
}

func (b *ScheduleBlock) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// BlockedInterval is a one-off unavailability window on a single date.
type BlockedInterval struct {
	bun.BaseModel `bun:"table:chef_blocked_dates,alias:cbd"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ChefID    uuid.UUID `bun:"chef_id,notnull,type:uuid"`
	Date      time.Time `bun:"blocked_date,notnull,type:date"`
	StartTime TimeOfDay `bun:"start_time,notnull,type:time"`
	EndTime   TimeOfDay `bun:"end_time,notnull,type:time"`
	Reason    string    `bun:"reason"`
	Active    bool      `bun:"is_active,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// IntervalOn anchors the blocked times on date.
func (b BlockedInterval) IntervalOn(date time.Time) Interval {
	return NewInterval(date, b.StartTime, b.EndTime)
}

func (b *BlockedInterval) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(query, &b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func stampModel(query bun.Query, id *uuid.UUID, createdAt, updatedAt *time.Time) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if *id == uuid.Nil {
			v, err := uuid.NewV7()
			if err != nil {
				return err
			}
			*id = v
		}
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
	return nil
}
