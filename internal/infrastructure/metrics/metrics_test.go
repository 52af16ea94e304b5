package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/domain/event"
)

func TestSubscribe_CountsEvents(t *testing.T) {
	d := dispatcher.NewDispatcher(zap.NewNop())
	Subscribe(d)

	sent := VisitsTotal.WithLabelValues("sent")
	failed := VisitsTotal.WithLabelValues("failed")
	rejected := VerificationsTotal.WithLabelValues("rejected")

	beforeSent := testutil.ToFloat64(sent)
	beforeFailed := testutil.ToFloat64(failed)
	beforeRejected := testutil.ToFloat64(rejected)
	beforeReports := testutil.ToFloat64(ReportsExported)

	ctx := context.Background()
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeVisitSent, "v-1", nil)))
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeVisitSent, "v-2", nil)))
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeSalespersonRejected, "664", nil)))
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeReportExported, "r", nil)))

	assert.Equal(t, beforeSent+2, testutil.ToFloat64(sent))
	assert.Equal(t, beforeFailed, testutil.ToFloat64(failed))
	assert.Equal(t, beforeRejected+1, testutil.ToFloat64(rejected))
	assert.Equal(t, beforeReports+1, testutil.ToFloat64(ReportsExported))
}
