package notifier

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/testutil"
)

func TestNotifier_Subscribe(t *testing.T) {
	ctx := testutil.MockContext()
	activityLogRepo := repository.NewActivityLogRepository()
	n := New(activityLogRepo)

	otp, err := json.Marshal(model.OTPEvent{Phone: "9876543210", Purpose: "register", Code: "123456"})
	require.NoError(t, err)
	n.Subscribe(ctx, &pubsub.Pack{Key: []byte("9876543210"), Msg: otp}, time.Now())

	ledger, err := json.Marshal(model.LedgerEvent{
		UserID:        testutil.User1.ID,
		UserName:      testutil.User1.Name,
		TransactionID: "42",
		Type:          "withdrawal",
		Amount:        decimal.NewFromInt(5000),
		Description:   "Withdrawal of ₹5000.00",
	})
	require.NoError(t, err)
	n.Subscribe(ctx, &pubsub.Pack{Key: []byte(testutil.User1.ID), Msg: ledger}, time.Now())

	n.Subscribe(ctx, &pubsub.Pack{Msg: []byte("garbage")}, time.Now())

	logs, err := activityLogRepo.GetList(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, testutil.User1.ID, logs[0].UserID)
	require.Equal(t, "Withdrawal of ₹5000.00", logs[0].Action)
}
