package passengers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/repository"
)

type PassengerUseCase interface {
	Get(ctx context.Context, id int64) (*domain.Passenger, error)
	UpdateContactField(ctx context.Context, id int64, field domain.ContactField, value string) (domain.UpdateResult, error)
}

type PassengerReader interface {
	GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error)
}

type PassengerService struct {
	store  repository.Transactor
	reader PassengerReader
	log    logrus.FieldLogger
}

func NewPassengerService(store repository.Transactor, reader PassengerReader, log logrus.FieldLogger) *PassengerService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PassengerService{store: store, reader: reader, log: log}
}

func (s *PassengerService) Get(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.reader.GetPassenger(ctx, id)
}

// UpdateContactField sets one contact detail. Writing the value already
// stored is reported as UpdateNoChange and leaves the row untouched.
func (s *PassengerService) UpdateContactField(ctx context.Context, id int64, field domain.ContactField, value string) (domain.UpdateResult, error) {
	if !field.Valid() {
		return 0, fmt.Errorf("%w: invalid detail type %s, only email or phone can be updated", domain.ErrValidation, field)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: new %s must not be empty", domain.ErrValidation, field)
	}

	var result domain.UpdateResult
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.LockPassenger(ctx, id)
		if err != nil {
			return err
		}
		if current.Value(field) == value {
			result = domain.UpdateNoChange
			return nil
		}
		if err := tx.UpdatePassengerContact(ctx, id, field, value); err != nil {
			return err
		}
		result = domain.UpdateApplied
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"passenger_id": id,
		"field":        field.String(),
		"result":       result.String(),
	}).Info("passenger detail update")
	return result, nil
}

var _ PassengerUseCase = (*PassengerService)(nil)
