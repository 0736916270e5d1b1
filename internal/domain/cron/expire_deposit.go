package cron

import (
	"context"
	"time"

	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/xcontext"
)

// ExpirePendingDepositsCronJob marks deposits which stayed pending longer than
// Ledger.DepositExpiration as expired. Expired deposits can never be
// confirmed.
type ExpirePendingDepositsCronJob struct {
	transactionRepo repository.TransactionRepository
}

func NewExpirePendingDepositsCronJob(transactionRepo repository.TransactionRepository) *ExpirePendingDepositsCronJob {
	return &ExpirePendingDepositsCronJob{transactionRepo: transactionRepo}
}

func (job *ExpirePendingDepositsCronJob) Name() string {
	return "expire_pending_deposits"
}

func (job *ExpirePendingDepositsCronJob) Do(ctx context.Context) {
	before := time.Now().Add(-xcontext.Configs(ctx).Ledger.DepositExpiration)
	n, err := job.transactionRepo.ExpirePendingDeposits(ctx, before, common.ExpiredDepositDescription)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire pending deposits: %v", err)
		return
	}

	if n > 0 {
		xcontext.Logger(ctx).Infof("Expired %d pending deposits", n)
	}
}

func (job *ExpirePendingDepositsCronJob) RunNow() bool {
	return true
}

func (job *ExpirePendingDepositsCronJob) Next() time.Time {
	return time.Now().Add(10 * time.Minute)
}
