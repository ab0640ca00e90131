package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, journeyDate time.Time) ([]domain.Flight, error)
	Airports(ctx context.Context) ([]domain.Airport, error)
}

// FlightCache stores master data only. Seat counts change with every booking
// and are always read from Postgres.
type FlightCache interface {
	GetFlight(ctx context.Context, id int64) (*domain.Flight, error)
	SetFlight(ctx context.Context, f *domain.Flight) error
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	log   logrus.FieldLogger
	now   func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithLogger(log logrus.FieldLogger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

// NewFlightService accepts a nil cache; every lookup then goes to Postgres.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo:  repo,
		cache: cache,
		log:   logrus.StandardLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

// GetByID reads through the cache. Cache failures fall back to Postgres.
func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlight(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("flight_id", id).Warn("flight cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlight(ctx, flight); err != nil {
			s.log.WithError(err).WithField("flight_id", id).Warn("flight cache write failed")
		}
	}
	return flight, nil
}

// Search returns flights on the route with seats left on journeyDate. For
// today's date, flights that have already departed are left out.
func (s *FlightService) Search(ctx context.Context, origin, destination string, journeyDate time.Time) ([]domain.Flight, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	if journeyDate.IsZero() {
		return nil, fmt.Errorf("%w: journey date is required", domain.ErrValidation)
	}

	now := s.now()
	today := domain.DateOf(now)
	date := domain.DateOf(journeyDate)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: journey date %s is in the past", domain.ErrValidation, date.Format(time.DateOnly))
	}

	var departingAfter *domain.TimeOfDay
	if date.Equal(today) {
		clock := domain.ClockOf(now)
		departingAfter = &clock
	}
	return s.repo.Search(ctx, origin, destination, date, departingAfter)
}

func (s *FlightService) Airports(ctx context.Context) ([]domain.Airport, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAirports(ctx)
		if err != nil {
			s.log.WithError(err).Warn("airport cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	airports, err := s.repo.Airports(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetAirports(ctx, airports); err != nil {
			s.log.WithError(err).Warn("airport cache write failed")
		}
	}
	return airports, nil
}

var _ FlightUseCase = (*FlightService)(nil)
