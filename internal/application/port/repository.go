package port

import (
	"context"
	"time"

	"github.com/fieldsales/visitform/internal/domain/entity"
)

// SalespersonRepository defines persistence operations for Salesperson
type SalespersonRepository interface {
	GetByPhone(ctx context.Context, phone string) (*entity.Salesperson, error)
	Upsert(ctx context.Context, sp *entity.Salesperson) error
	List(ctx context.Context) ([]*entity.Salesperson, error)
}

// VisitRepository defines persistence operations for Visit
type VisitRepository interface {
	Create(ctx context.Context, visit *entity.Visit) error
	GetByID(ctx context.Context, id string) (*entity.Visit, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, errorMsg string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Visit, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
