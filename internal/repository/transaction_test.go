package repository_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/testutil"
	"gorm.io/gorm"
)

func Test_transactionRepository_UpdateStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	txRepo := repository.NewTransactionRepository()

	tx := &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1},
		UserID:        testutil.User1.ID,
		Type:          entity.TransactionDeposit,
		Status:        entity.TransactionPending,
		Amount:        decimal.NewFromInt(500),
	}
	require.NoError(t, txRepo.Create(ctx, tx))

	err := txRepo.UpdateStatus(ctx, tx.ID, entity.TransactionPending, entity.TransactionCompleted, "done")
	require.NoError(t, err)

	// Only one caller can move it out of pending.
	err = txRepo.UpdateStatus(ctx, tx.ID, entity.TransactionPending, entity.TransactionCompleted, "done")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := txRepo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TransactionCompleted, got.Status)
	require.Equal(t, "done", got.Description)
}

func Test_transactionRepository_ExpirePendingDeposits(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	txRepo := repository.NewTransactionRepository()

	now := time.Now()
	txs := []*entity.Transaction{
		{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 1, CreatedAt: now.Add(-48 * time.Hour)},
			UserID:        testutil.User1.ID,
			Type:          entity.TransactionDeposit,
			Status:        entity.TransactionPending,
		},
		{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 2, CreatedAt: now},
			UserID:        testutil.User1.ID,
			Type:          entity.TransactionDeposit,
			Status:        entity.TransactionPending,
		},
		{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 3, CreatedAt: now.Add(-48 * time.Hour)},
			UserID:        testutil.User1.ID,
			Type:          entity.TransactionWithdrawal,
			Status:        entity.TransactionCompleted,
		},
	}
	for _, tx := range txs {
		require.NoError(t, txRepo.Create(ctx, tx))
	}

	n, err := txRepo.ExpirePendingDeposits(ctx, now.Add(-24*time.Hour), "Deposit expired")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := txRepo.GetByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(3), got[0].ID)
	require.Equal(t, entity.TransactionPending, got[1].Status)
	require.Equal(t, entity.TransactionExpired, got[2].Status)
	require.Equal(t, "Deposit expired", got[2].Description)

	unread, err := txRepo.CountUnread(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), unread)

	require.NoError(t, txRepo.MarkAllAsRead(ctx, testutil.User1.ID))
	unread, err = txRepo.CountUnread(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Zero(t, unread)
}

func Test_otpRepository(t *testing.T) {
	ctx := testutil.MockContext()
	otpRepo := repository.NewOTPRepository()

	now := time.Now()
	require.NoError(t, otpRepo.Create(ctx, &entity.OTP{
		ID: "otp1", Phone: "9000000001", Purpose: entity.OTPRegister, CodeHash: "h1", ExpiredAt: now.Add(time.Minute),
	}))
	require.NoError(t, otpRepo.InvalidateUnused(ctx, "9000000001", entity.OTPRegister))
	require.NoError(t, otpRepo.Create(ctx, &entity.OTP{
		ID: "otp2", Phone: "9000000001", Purpose: entity.OTPRegister, CodeHash: "h2", ExpiredAt: now.Add(time.Minute),
	}))

	otp, err := otpRepo.GetLatestUnused(ctx, "9000000001", entity.OTPRegister)
	require.NoError(t, err)
	require.Equal(t, "otp2", otp.ID)

	_, err = otpRepo.GetLatestUnused(ctx, "9000000001", entity.OTPResetPassword)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, otpRepo.MarkUsed(ctx, "otp2"))
	require.ErrorIs(t, otpRepo.MarkUsed(ctx, "otp2"), gorm.ErrRecordNotFound)

	n, err := otpRepo.DeleteStale(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func Test_checkInRepository(t *testing.T) {
	ctx := testutil.MockContext()
	checkInRepo := repository.NewCheckInRepository()

	require.NoError(t, checkInRepo.Create(ctx, &entity.CheckIn{UserID: "user1", Day: "2024-01-02"}))
	require.NoError(t, checkInRepo.Create(ctx, &entity.CheckIn{UserID: "user1", Day: "2024-01-01"}))

	err := checkInRepo.Create(ctx, &entity.CheckIn{UserID: "user1", Day: "2024-01-01"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := checkInRepo.Exists(ctx, "user1", "2024-01-01")
	require.NoError(t, err)
	require.True(t, exists)

	days, err := checkInRepo.GetDays(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, []string{"2024-01-01", "2024-01-02"}, days)
}
