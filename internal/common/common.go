package common

import (
	"context"
	"strings"

	mathutil "github.com/pkg/math"
	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/pkg/xcontext"
)

const (
	AdminChannel              = "admin"
	ExpiredDepositDescription = "Deposit expired"
)

// Paginate clamps the offset and limit of a list request into the configured
// bounds.
func Paginate(ctx context.Context, offset, limit int) (int, int) {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	return mathutil.MaxInt(offset, 0), mathutil.MinInt(limit, cfg.MaxLimit)
}

func FormatMoney(ctx context.Context, amount decimal.Decimal) string {
	return xcontext.Configs(ctx).Ledger.Currency + amount.StringFixed(2)
}

// MaskPhone keeps the first two and the last four digits.
func MaskPhone(phone string) string {
	if len(phone) < 6 {
		return strings.Repeat("*", len(phone))
	}

	return phone[:2] + "****" + phone[len(phone)-4:]
}
