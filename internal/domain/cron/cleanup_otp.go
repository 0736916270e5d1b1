package cron

import (
	"context"
	"time"

	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type CleanupOTPCronJob struct {
	otpRepo repository.OTPRepository
}

func NewCleanupOTPCronJob(otpRepo repository.OTPRepository) *CleanupOTPCronJob {
	return &CleanupOTPCronJob{otpRepo: otpRepo}
}

func (job *CleanupOTPCronJob) Name() string {
	return "cleanup_otp"
}

func (job *CleanupOTPCronJob) Do(ctx context.Context) {
	n, err := job.otpRepo.DeleteStale(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete stale otps: %v", err)
		return
	}

	xcontext.Logger(ctx).Debugf("Deleted %d stale otps", n)
}

func (job *CleanupOTPCronJob) RunNow() bool {
	return false
}

func (job *CleanupOTPCronJob) Next() time.Time {
	return time.Now().Truncate(time.Hour).Add(time.Hour)
}
