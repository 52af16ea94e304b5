package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/event"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

func TestSalespersonService_Verify(t *testing.T) {
	active := &entity.Salesperson{ID: 1, Name: "Laura Gómez", Phone: "6641234567", Active: true}
	inactive := &entity.Salesperson{ID: 2, Name: "Pedro Ruiz", Phone: "6647654321", Active: false}

	repo := &mockSalespersonRepo{
		getByPhoneFunc: func(ctx context.Context, phone string) (*entity.Salesperson, error) {
			switch phone {
			case active.Phone:
				return active, nil
			case inactive.Phone:
				return inactive, nil
			case "6640000000":
				return nil, errors.New("database is locked")
			}
			return nil, nil
		},
	}

	tests := []struct {
		name      string
		phone     string
		wantKind  failure.Kind
		wantEvent event.Type
	}{
		{"formatted active number", "664-123-4567", "", event.TypeSalespersonVerified},
		{"inactive", "6647654321", failure.KindUnauthorized, event.TypeSalespersonRejected},
		{"unknown", "6641111111", failure.KindUnauthorized, event.TypeSalespersonRejected},
		{"too short", "664123", failure.KindValidation, ""},
		{"repository error", "6640000000", failure.KindInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			svc := NewSalespersonService(repo, &mockTxManager{}, d, nopLogger{})

			sp, err := svc.Verify(context.Background(), tt.phone)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, "Laura Gómez", sp.Name)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.KindOf(err))
				assert.Nil(t, sp)
			}

			if tt.wantEvent == "" {
				assert.Empty(t, d.types())
			} else {
				assert.Equal(t, []event.Type{tt.wantEvent}, d.types())
			}
		})
	}
}

func TestSalespersonService_VerifyRejectionMessage(t *testing.T) {
	svc := NewSalespersonService(&mockSalespersonRepo{}, &mockTxManager{}, nil, nopLogger{})

	_, err := svc.Verify(context.Background(), "6641111111")
	assert.Equal(t, failure.MsgAccessDenied, failure.MessageOf(err, ""))
	assert.Equal(t, failure.TitleAccessDenied, failure.TitleOf(err, ""))
}

func TestSalespersonService_ImportRoster(t *testing.T) {
	repo := &mockSalespersonRepo{}
	tx := &mockTxManager{}
	svc := NewSalespersonService(repo, tx, nil, nopLogger{})

	people := []*entity.Salesperson{
		{Name: "Laura Gómez", Phone: "6641234567", Active: true},
		{Name: "Pedro Ruiz", Phone: "6647654321", Active: false},
	}

	n, err := svc.ImportRoster(context.Background(), people)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, tx.calls)
	assert.Len(t, repo.upserted, 2)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSalespersonService_ImportRosterRejectsBadPhone(t *testing.T) {
	repo := &mockSalespersonRepo{}
	tx := &mockTxManager{}
	svc := NewSalespersonService(repo, tx, nil, nopLogger{})

	_, err := svc.ImportRoster(context.Background(), []*entity.Salesperson{{Name: "X", Phone: "123"}})
	assert.True(t, failure.Is(err, failure.KindValidation))
	assert.Zero(t, tx.calls)
}

func TestSalespersonService_ImportRosterPropagatesErrors(t *testing.T) {
	repo := &mockSalespersonRepo{
		upsertFunc: func(ctx context.Context, sp *entity.Salesperson) error {
			return errors.New("constraint failed")
		},
	}
	svc := NewSalespersonService(repo, &mockTxManager{}, nil, nopLogger{})

	n, err := svc.ImportRoster(context.Background(), []*entity.Salesperson{{Name: "X", Phone: "6641234567"}})
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "6641234567")
}
