package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/testutil"
)

func Test_ExpirePendingDepositsCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	transactionRepo := repository.NewTransactionRepository()

	require.NoError(t, transactionRepo.Create(ctx, &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1, CreatedAt: time.Now().Add(-25 * time.Hour)},
		UserID:        testutil.User1.ID,
		Type:          entity.TransactionDeposit,
		Status:        entity.TransactionPending,
	}))
	require.NoError(t, transactionRepo.Create(ctx, &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 2, CreatedAt: time.Now().Add(-time.Hour)},
		UserID:        testutil.User1.ID,
		Type:          entity.TransactionDeposit,
		Status:        entity.TransactionPending,
	}))

	job := NewExpirePendingDepositsCronJob(transactionRepo)
	require.True(t, job.RunNow())
	job.Do(ctx)

	old, err := transactionRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionExpired, old.Status)
	require.Equal(t, common.ExpiredDepositDescription, old.Description)

	recent, err := transactionRepo.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionPending, recent.Status)
}

func Test_CleanupOTPCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	otpRepo := repository.NewOTPRepository()

	require.NoError(t, otpRepo.Create(ctx, &entity.OTP{
		ID:        "old",
		Phone:     "9000000001",
		Purpose:   entity.OTPRegister,
		ExpiredAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, otpRepo.Create(ctx, &entity.OTP{
		ID:        "fresh",
		Phone:     "9000000002",
		Purpose:   entity.OTPRegister,
		ExpiredAt: time.Now().Add(10 * time.Minute),
	}))

	job := NewCleanupOTPCronJob(otpRepo)
	require.False(t, job.RunNow())
	require.True(t, job.Next().After(time.Now()))
	job.Do(ctx)

	_, err := otpRepo.GetLatestUnused(ctx, "9000000001", entity.OTPRegister)
	require.Error(t, err)

	otp, err := otpRepo.GetLatestUnused(ctx, "9000000002", entity.OTPRegister)
	require.NoError(t, err)
	require.Equal(t, "fresh", otp.ID)
}

type countingJob struct {
	runs atomic.Int32
	done chan struct{}
}

func (job *countingJob) Name() string { return "counting" }

func (job *countingJob) Do(context.Context) {
	if job.runs.Add(1) == 1 {
		close(job.done)
	}
	panic("boom")
}

func (job *countingJob) RunNow() bool { return true }
func (job *countingJob) Next() time.Time { return time.Now().Add(time.Hour) }

func TestCronJobManager(t *testing.T) {
	ctx := testutil.MockContext()
	job := &countingJob{done: make(chan struct{})}

	m := NewCronJobManager()
	m.Register(job)

	stopped := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(stopped)
	}()

	select {
	case <-job.done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	// A panicking job is still rescheduled, then cancelled here.
	require.Eventually(t, func() bool {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.jobs[job] != nil
	}, time.Second, 10*time.Millisecond)

	m.Cancel(ctx)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
	require.Equal(t, int32(1), job.runs.Load())
}
