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

// SalespersonRepository implements port.SalespersonRepository
type SalespersonRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSalespersonRepository creates a new salesperson repository
func NewSalespersonRepository(db *sql.DB, logger *zap.Logger) *SalespersonRepository {
	return &SalespersonRepository{
		db:     db,
		logger: logger,
	}
}

// GetByPhone returns the salesperson with the given 10-digit phone, or nil
func (r *SalespersonRepository) GetByPhone(ctx context.Context, phone string) (*entity.Salesperson, error) {
	query := `
		SELECT id, name, phone, active, created_at, updated_at
		FROM salespeople
		WHERE phone = ?
	`

	var sp entity.Salesperson
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx, query, phone).Scan(
		&sp.ID,
		&sp.Name,
		&sp.Phone,
		&sp.Active,
		&sp.CreatedAt,
		&sp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get salesperson by phone", zap.Error(err))
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}

	return &sp, nil
}

// Upsert inserts the salesperson or updates name and active flag by phone
func (r *SalespersonRepository) Upsert(ctx context.Context, sp *entity.Salesperson) error {
	query := `
		INSERT INTO salespeople (name, phone, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(phone) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			updated_at = excluded.updated_at
	`

	now := dbTime(time.Now())
	conn := sqlite.Conn(ctx, r.db)

	if _, err := conn.ExecContext(ctx, query, sp.Name, sp.Phone, sp.Active, now, now); err != nil {
		r.logger.Error("Failed to upsert salesperson",
			zap.String("phone", sp.Phone),
			zap.Error(err))
		return fmt.Errorf("failed to upsert salesperson: %w", err)
	}

	err := conn.QueryRowContext(ctx, "SELECT id, created_at FROM salespeople WHERE phone = ?", sp.Phone).
		Scan(&sp.ID, &sp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to read upserted salesperson: %w", err)
	}
	sp.UpdatedAt = now

	return nil
}

// List returns all salespeople ordered by name
func (r *SalespersonRepository) List(ctx context.Context) ([]*entity.Salesperson, error) {
	query := `
		SELECT id, name, phone, active, created_at, updated_at
		FROM salespeople
		ORDER BY name
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list salespeople", zap.Error(err))
		return nil, fmt.Errorf("failed to list salespeople: %w", err)
	}
	defer rows.Close()

	var result []*entity.Salesperson
	for rows.Next() {
		var sp entity.Salesperson
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Active, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salesperson: %w", err)
		}
		result = append(result, &sp)
	}

	return result, rows.Err()
}

// dbTime normalizes timestamps so stored values sort as text
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

var _ port.SalespersonRepository = (*SalespersonRepository)(nil)
