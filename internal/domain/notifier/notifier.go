package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/xcontext"
)

// Notifier consumes the events published by the API. Codes of OTP events are
// delivered by the SMS gateway, which is only simulated by a log line here.
// Ledger events are appended to the activity log.
type Notifier struct {
	activityLogRepo repository.ActivityLogRepository
}

func New(activityLogRepo repository.ActivityLogRepository) *Notifier {
	return &Notifier{activityLogRepo: activityLogRepo}
}

// Subscribe is a pubsub.SubscribeHandler.
func (n *Notifier) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	// Kafka keys OTP events by phone and ledger events by user id, so the
	// message itself tells which event it is.
	var otp model.OTPEvent
	if err := json.Unmarshal(pack.Msg, &otp); err == nil && otp.Code != "" {
		n.sendSMS(ctx, &otp)
		return
	}

	var ledger model.LedgerEvent
	if err := json.Unmarshal(pack.Msg, &ledger); err != nil || ledger.TransactionID == "" {
		xcontext.Logger(ctx).Errorf("Unknown event published at %s: %s", t.Format(time.RFC3339), pack.Msg)
		return
	}

	n.recordLedger(ctx, &ledger)
}

func (n *Notifier) sendSMS(ctx context.Context, event *model.OTPEvent) {
	xcontext.Logger(ctx).Infof("SMS to %s: your %s code is %s", event.Phone, event.Purpose, event.Code)
}

func (n *Notifier) recordLedger(ctx context.Context, event *model.LedgerEvent) {
	err := n.activityLogRepo.Create(ctx, &entity.ActivityLog{
		UserID:   event.UserID,
		UserName: event.UserName,
		Action:   event.Description,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record ledger event %s: %v", event.TransactionID, err)
	}
}
