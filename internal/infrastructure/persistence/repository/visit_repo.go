package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/infrastructure/persistence/sqlite"
)

// ErrVisitNotFound is returned when updating a visit that does not exist
var ErrVisitNotFound = errors.New("visit not found")

const visitColumns = `
	id, client_number, client_name, latitude, longitude,
	salesperson_name, salesperson_phone, status, error_message,
	created_at, sent_at
`

// VisitRepository implements port.VisitRepository
type VisitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *sql.DB, logger *zap.Logger) *VisitRepository {
	return &VisitRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new visit. ID and CreatedAt must be set by the caller.
func (r *VisitRepository) Create(ctx context.Context, visit *entity.Visit) error {
	query := `
		INSERT INTO visits (` + visitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if visit.Status == "" {
		visit.Status = entity.VisitStatusPending
	}
	visit.CreatedAt = dbTime(visit.CreatedAt)

	var errorMsg sql.NullString
	if visit.ErrorMessage != "" {
		errorMsg = sql.NullString{String: visit.ErrorMessage, Valid: true}
	}
	var sentAt sql.NullTime
	if visit.SentAt != nil {
		sentAt = sql.NullTime{Time: dbTime(*visit.SentAt), Valid: true}
	}

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, query,
		visit.ID,
		visit.ClientNumber,
		visit.ClientName,
		visit.Latitude,
		visit.Longitude,
		visit.SalespersonName,
		visit.SalespersonPhone,
		visit.Status,
		errorMsg,
		visit.CreatedAt,
		sentAt,
	)
	if err != nil {
		r.logger.Error("Failed to create visit",
			zap.String("id", visit.ID),
			zap.Error(err))
		return fmt.Errorf("failed to create visit: %w", err)
	}

	return nil
}

// GetByID retrieves a visit, or nil when it does not exist
func (r *VisitRepository) GetByID(ctx context.Context, id string) (*entity.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = ?`

	visit, err := scanVisit(sqlite.Conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get visit",
			zap.String("id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	return visit, nil
}

// MarkSent marks the visit as delivered
func (r *VisitRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE visits
		SET status = ?, sent_at = ?, error_message = NULL
		WHERE id = ?
	`
	return r.update(ctx, "mark visit sent", query, entity.VisitStatusSent, dbTime(sentAt), id)
}

// MarkFailed records a delivery failure
func (r *VisitRepository) MarkFailed(ctx context.Context, id string, errorMsg string) error {
	query := `
		UPDATE visits
		SET status = ?, error_message = ?
		WHERE id = ?
	`
	return r.update(ctx, "mark visit failed", query, entity.VisitStatusFailed, errorMsg, id)
}

func (r *VisitRepository) update(ctx context.Context, what, query string, args ...interface{}) error {
	result, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+what, zap.Error(err))
		return fmt.Errorf("failed to %s: %w", what, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if n == 0 {
		return ErrVisitNotFound
	}
	return nil
}

// ListBetween returns visits created in [from, to), oldest first
func (r *VisitRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at, id
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query, dbTime(from), dbTime(to))
	if err != nil {
		r.logger.Error("Failed to list visits", zap.Error(err))
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []*entity.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, visit)
	}

	return visits, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVisit(s scanner) (*entity.Visit, error) {
	var visit entity.Visit
	var errorMsg sql.NullString
	var sentAt sql.NullTime

	err := s.Scan(
		&visit.ID,
		&visit.ClientNumber,
		&visit.ClientName,
		&visit.Latitude,
		&visit.Longitude,
		&visit.SalespersonName,
		&visit.SalespersonPhone,
		&visit.Status,
		&errorMsg,
		&visit.CreatedAt,
		&sentAt,
	)
	if err != nil {
		return nil, err
	}

	if errorMsg.Valid {
		visit.ErrorMessage = errorMsg.String
	}
	if sentAt.Valid {
		t := sentAt.Time
		visit.SentAt = &t
	}

	return &visit, nil
}

var _ port.VisitRepository = (*VisitRepository)(nil)
