package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/testutil"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func TestPrometheus(t *testing.T) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithHTTPRequest(ctx, httptest.NewRequest(http.MethodPost, "/withdraw", nil))
	ctx, err := WithStartTime()(ctx)
	require.NoError(t, err)

	failed := xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Minimum withdrawal is ₹300.00"))
	Prometheus()(failed)
	Prometheus()(failed)
	Prometheus()(ctx)

	code := strconv.Itoa(int(errorx.BadRequest))
	counter := common.PromCounters[common.HTTPRequestTotal]
	require.Equal(t, float64(2), promtestutil.ToFloat64(counter.WithLabelValues(http.MethodPost, "/withdraw", code)))
	require.Equal(t, float64(1), promtestutil.ToFloat64(counter.WithLabelValues(http.MethodPost, "/withdraw", "0")))
}

func Test_statusCode(t *testing.T) {
	require.Equal(t, "0", statusCode(nil))
	require.Equal(t, "100004", statusCode(errorx.New(errorx.NotFound, "Plan not found")))
	require.Equal(t, "-1", statusCode(errors.New("connection reset")))
}
