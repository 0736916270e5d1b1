package domain

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/xcontext"
)

// publishLedgerEvent must be called after the database transaction of the
// ledger operation committed.
func publishLedgerEvent(
	ctx context.Context,
	publisher pubsub.Publisher,
	user *entity.User,
	tx *entity.Transaction,
) {
	common.PromCounters[common.LedgerOperationTotal].WithLabelValues(string(tx.Type)).Inc()
	amount, _ := tx.Amount.Abs().Float64()
	common.PromCounters[common.LedgerAmountTotal].WithLabelValues(string(tx.Type)).Add(amount)

	b, err := json.Marshal(model.LedgerEvent{
		UserID:        user.ID,
		UserName:      user.Name,
		TransactionID: strconv.FormatInt(tx.ID, 10),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Description:   tx.Description,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal ledger event: %v", err)
		return
	}

	err = publisher.Publish(ctx, model.LedgerTopic, &pubsub.Pack{Key: []byte(user.ID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish ledger event: %v", err)
	}
}

type activityRecorder struct {
	activityLogRepo repository.ActivityLogRepository
}

// record appends an activity log line. A failure is logged only, so it never
// breaks the action being recorded.
func (r activityRecorder) record(ctx context.Context, userID, userName, action string) {
	err := r.activityLogRepo.Create(ctx, &entity.ActivityLog{
		UserID:   userID,
		UserName: userName,
		Action:   action,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record activity %q: %v", action, err)
	}
}
