package postgres

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"vietchef/backend/internal/domain"
	"vietchef/backend/internal/service/availability"
	"vietchef/backend/internal/store"
)

func TestScaleFactor(t *testing.T) {
	tests := []struct {
		guests, servingSize int
		want                float64
	}{
		{guests: 2, servingSize: 4, want: 1},
		{guests: 4, servingSize: 4, want: 1},
		{guests: 5, servingSize: 4, want: 1.1},
		{guests: 8, servingSize: 4, want: 1.1},
		{guests: 9, servingSize: 4, want: 1.2},
		{guests: 9, servingSize: 0, want: 1.2},
		{guests: 13, servingSize: 6, want: 1.2},
	}
	for _, tt := range tests {
		if got := ScaleFactor(tt.guests, tt.servingSize); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ScaleFactor(%d, %d) = %v, want %v", tt.guests, tt.servingSize, got, tt.want)
		}
	}
}

func TestTotalCookHours(t *testing.T) {
	dishes := []domain.Dish{
		{ID: uuid.New(), CookTimeMinutes: 60, ServingSize: 4},
		{ID: uuid.New(), CookTimeMinutes: 30, ServingSize: 10},
	}
	// 60*1.1 + 30*1 = 96 minutes.
	if got := TotalCookHours(dishes, 6); math.Abs(got-1.6) > 1e-9 {
		t.Fatalf("TotalCookHours = %v, want 1.6", got)
	}
	if got := TotalCookHours(nil, 6); got != 0 {
		t.Fatalf("TotalCookHours(nil) = %v, want 0", got)
	}
}

func TestTotalCookHours_LeadTimeKeepsWholeMinutes(t *testing.T) {
	for minutes := 1; minutes <= 300; minutes++ {
		dishes := []domain.Dish{{ID: uuid.New(), CookTimeMinutes: minutes, ServingSize: 4}}
		lead := availability.LeadTime{CookHours: TotalCookHours(dishes, 2)}
		if got := lead.Minutes(); got != minutes {
			t.Fatalf("lead minutes for %d min dish = %d, want %d", minutes, got, minutes)
		}
	}
}

func TestMergeDishes_Deduplicates(t *testing.T) {
	a := domain.Dish{ID: uuid.New(), CookTimeMinutes: 10}
	b := domain.Dish{ID: uuid.New(), CookTimeMinutes: 20}
	c := domain.Dish{ID: uuid.New(), CookTimeMinutes: 30}

	got := mergeDishes([]domain.Dish{a, b}, []domain.Dish{b, c})
	if len(got) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(got))
	}
	if got[0].ID != a.ID || got[1].ID != b.ID || got[2].ID != c.ID {
		t.Fatalf("merged order = %v, want a, b, c", got)
	}

	id := uuid.New()
	if ids := uniqueIDs([]uuid.UUID{id, id, uuid.Nil}); len(ids) != 2 {
		t.Fatalf("uniqueIDs len = %d, want 2", len(ids))
	}
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{code: "23505", want: store.ErrConflict},
		{code: "23P01", want: store.ErrConflict},
		{code: "23503", want: store.ErrNotFound},
	}
	for _, tt := range tests {
		if got := mapWriteError(&pgconn.PgError{Code: tt.code}); !errors.Is(got, tt.want) {
			t.Fatalf("mapWriteError(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}

	other := &pgconn.PgError{Code: "22001"}
	if got := mapWriteError(other); got != other {
		t.Fatalf("mapWriteError(22001) = %v, want original error", got)
	}
	if mapWriteError(nil) != nil {
		t.Fatalf("mapWriteError(nil) must be nil")
	}
}
