package baggage

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/metrics"
	"github.com/Domenick1991/airreserve/internal/repository"
)

type WeightReader interface {
	BaggageWeight(ctx context.Context, passengerID int64, code string, typ domain.BaggageType) (float64, error)
}

type AddInput struct {
	PassengerID   int64
	ReferenceCode string
	Weight        float64
	Type          domain.BaggageType
	Privileged    bool
}

type Service struct {
	store   repository.Transactor
	weights WeightReader
	log     logrus.FieldLogger
}

func NewService(store repository.Transactor, weights WeightReader, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, weights: weights, log: log}
}

// Remaining is the weight still allowed for the passenger on this booking. It
// is negative when earlier adds already went over the allowance.
func (s *Service) Remaining(ctx context.Context, passengerID int64, code string, typ domain.BaggageType, privileged bool) (float64, error) {
	code = normalizeCode(code)
	if err := validateKey(passengerID, code, typ); err != nil {
		return 0, err
	}
	used, err := s.weights.BaggageWeight(ctx, passengerID, code, typ)
	if err != nil {
		return 0, err
	}
	return Remaining(typ, privileged, used), nil
}

// TryAdd stores a baggage item if it fits the remaining allowance. The
// reservation row is locked for the duration, so concurrent adds for the same
// passenger and booking are checked one after another.
func (s *Service) TryAdd(ctx context.Context, in AddInput) (int64, error) {
	in.ReferenceCode = normalizeCode(in.ReferenceCode)
	id, err := s.tryAdd(ctx, in)
	metrics.BaggageAdds.WithLabelValues(string(in.Type), domain.Kind(err)).Inc()

	logger := s.log.WithFields(logrus.Fields{
		"reference_code": in.ReferenceCode,
		"passenger_id":   in.PassengerID,
		"type":           in.Type,
		"weight":         in.Weight,
	})
	if err != nil {
		logger.WithError(err).Info("baggage rejected")
		return 0, err
	}
	logger.WithField("baggage_id", id).Info("baggage added")
	return id, nil
}

// weightTolerance absorbs binary float error in values like 0.29*100.
const weightTolerance = 1e-6

func (s *Service) tryAdd(ctx context.Context, in AddInput) (int64, error) {
	if err := validateKey(in.PassengerID, in.ReferenceCode, in.Type); err != nil {
		return 0, err
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) || in.Weight <= 0 {
		return 0, fmt.Errorf("%w: weight must be a positive number", domain.ErrValidation)
	}
	// weight is stored as NUMERIC(6,2); finer input is rejected, not rounded
	hundredths := in.Weight * 100
	if math.Abs(hundredths-math.Round(hundredths)) > weightTolerance {
		return 0, fmt.Errorf("%w: weight %v has more than 2 decimal places", domain.ErrValidation, in.Weight)
	}
	weight := math.Round(hundredths) / 100

	var id int64
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.LockReservation(ctx, in.ReferenceCode, in.PassengerID); err != nil {
			return err
		}
		used, err := tx.BaggageWeight(ctx, in.PassengerID, in.ReferenceCode, in.Type)
		if err != nil {
			return err
		}
		if err := Check(in.Type, in.Privileged, used, weight); err != nil {
			return err
		}

		item := domain.BaggageItem{
			PassengerID:   in.PassengerID,
			ReferenceCode: in.ReferenceCode,
			Weight:        weight,
			Type:          in.Type,
		}
		if err := tx.CreateBaggage(ctx, &item); err != nil {
			return err
		}
		id = item.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func validateKey(passengerID int64, code string, typ domain.BaggageType) error {
	if passengerID <= 0 {
		return fmt.Errorf("%w: passenger is required", domain.ErrValidation)
	}
	if code == "" {
		return fmt.Errorf("%w: reference code is required", domain.ErrValidation)
	}
	if typ != domain.BaggageCabin && typ != domain.BaggageChecked {
		return fmt.Errorf("%w: unknown baggage type %q", domain.ErrValidation, typ)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
