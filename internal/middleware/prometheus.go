package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/router"
	"github.com/wealthfund/backend/pkg/xcontext"
)

// WithStartTime must be the first middleware of the router.
func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

// Prometheus counts and times every request. The status_code label is the
// errorx code of the failed request, 0 on success and -1 for errors which are
// not an errorx.Error.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		labels := []string{req.Method, req.URL.Path, statusCode(xcontext.Error(ctx))}

		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(labels...).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(labels...).
			Observe(time.Since(xcontext.StartTime(ctx)).Seconds())
	}
}

func statusCode(err error) string {
	if err == nil {
		return "0"
	}

	var errx errorx.Error
	if errors.As(err, &errx) {
		return strconv.Itoa(int(errx.Code))
	}

	return "-1"
}
