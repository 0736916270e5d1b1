package common_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/pkg/testutil"
)

func TestMaskPhone(t *testing.T) {
	require.Equal(t, "98****3210", common.MaskPhone("9876543210"))
	require.Equal(t, "12****3456", common.MaskPhone("123456"))
	require.Equal(t, "*****", common.MaskPhone("12345"))
	require.Equal(t, "", common.MaskPhone(""))
}

func TestPaginate(t *testing.T) {
	ctx := testutil.MockContext()

	tests := []struct {
		name       string
		offset     int
		limit      int
		wantOffset int
		wantLimit  int
	}{
		{name: "default limit", offset: 0, limit: 0, wantOffset: 0, wantLimit: 20},
		{name: "negative offset", offset: -5, limit: 10, wantOffset: 0, wantLimit: 10},
		{name: "limit above max", offset: 40, limit: 500, wantOffset: 40, wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := common.Paginate(ctx, tt.offset, tt.limit)
			require.Equal(t, tt.wantOffset, offset)
			require.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestFormatMoney(t *testing.T) {
	ctx := testutil.MockContext()
	require.Equal(t, "₹300.00", common.FormatMoney(ctx, decimal.NewFromInt(300)))
	require.Equal(t, "₹15000.75", common.FormatMoney(ctx, decimal.RequireFromString("15000.75")))
}
