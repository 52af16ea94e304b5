package service

import (
	"context"
	"fmt"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/event"
	"github.com/fieldsales/visitform/internal/domain/failure"
	"github.com/fieldsales/visitform/pkg/utils"
)

// SalespersonService verifies salespeople and maintains the roster
type SalespersonService interface {
	Verify(ctx context.Context, phoneNumber string) (*entity.Salesperson, error)
	ImportRoster(ctx context.Context, people []*entity.Salesperson) (int, error)
	List(ctx context.Context) ([]*entity.Salesperson, error)
}

type salespersonServiceImpl struct {
	repo       port.SalespersonRepository
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewSalespersonService creates a new SalespersonService
func NewSalespersonService(
	repo port.SalespersonRepository,
	txManager port.TransactionManager,
	d dispatcher.Dispatcher,
	logger Logger,
) SalespersonService {
	return &salespersonServiceImpl{
		repo:       repo,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
	}
}

// Verify accepts the phone number in any formatting. Only active salespeople pass.
func (s *salespersonServiceImpl) Verify(ctx context.Context, phoneNumber string) (*entity.Salesperson, error) {
	const op = "salesperson.verify"

	digits := utils.NormalizeDigits(phoneNumber)
	if !utils.IsPhoneNumber(digits) {
		return nil, failure.Validation(op, failure.TitleInvalidNumber, failure.MsgInvalidNumber)
	}

	sp, err := s.repo.GetByPhone(ctx, digits)
	if err != nil {
		s.logger.Error("Failed to look up salesperson", "error", err)
		return nil, failure.Wrap(err, failure.KindInternal, op, failure.TitleConnectionError, "")
	}

	if sp == nil || !sp.Active {
		s.logger.Info("Salesperson rejected", "phone_suffix", phoneSuffix(digits))
		publish(ctx, s.dispatcher, event.NewEvent(event.TypeSalespersonRejected, digits, nil))
		return nil, failure.New(failure.KindUnauthorized, op, failure.TitleAccessDenied, failure.MsgAccessDenied)
	}

	s.logger.Info("Salesperson verified", "salesperson_id", sp.ID)
	publish(ctx, s.dispatcher, event.NewEvent(event.TypeSalespersonVerified, digits, map[string]interface{}{
		"name": sp.Name,
	}))

	return sp, nil
}

// ImportRoster upserts every salesperson in one transaction
func (s *salespersonServiceImpl) ImportRoster(ctx context.Context, people []*entity.Salesperson) (int, error) {
	for _, sp := range people {
		if !utils.IsPhoneNumber(sp.Phone) {
			return 0, failure.Validation("salesperson.import", "", fmt.Sprintf("invalid phone for %q", sp.Name))
		}
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, sp := range people {
			if err := s.repo.Upsert(txCtx, sp); err != nil {
				return fmt.Errorf("upsert %s: %w", sp.Phone, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Roster import failed", "error", err)
		return 0, err
	}

	s.logger.Info("Roster imported", "count", len(people))
	return len(people), nil
}

func (s *salespersonServiceImpl) List(ctx context.Context) ([]*entity.Salesperson, error) {
	return s.repo.List(ctx)
}

// phoneSuffix keeps logs free of full phone numbers
func phoneSuffix(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return "******" + digits[len(digits)-4:]
}
