package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/Domenick1991/airreserve/internal/domain"
)

func TestNewFlightRepository(t *testing.T) {
	repo := NewFlightRepository(&pgxpool.Pool{})
	assert.IsType(t, &PGFlightRepository{}, repo)
}

func TestNewQueries_ImplementsTxAndListings(t *testing.T) {
	var q any = NewQueries(&pgxpool.Pool{})
	assert.Implements(t, (*Tx)(nil), q)
	assert.Implements(t, (*Listings)(nil), q)
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		name string
		in   pgtype.Time
		want domain.TimeOfDay
	}{
		{"morning", pgtype.Time{Microseconds: (9*time.Hour + 30*time.Minute).Microseconds(), Valid: true}, domain.NewTimeOfDay(9, 30)},
		{"midnight", pgtype.Time{Microseconds: 0, Valid: true}, domain.NewTimeOfDay(0, 0)},
		{"null", pgtype.Time{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeOfDay(tt.in))
		})
	}
}
