package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/crypto"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/xcontext"
	"github.com/wealthfund/backend/pkg/xredis"
	"gorm.io/gorm"
)

// otpManager issues and verifies one-time codes. Only the most recently issued
// code of a phone and purpose is valid, and it is valid once.
type otpManager struct {
	otpRepo     repository.OTPRepository
	redisClient xredis.Client
	publisher   pubsub.Publisher
}

func newOTPManager(
	otpRepo repository.OTPRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *otpManager {
	return &otpManager{
		otpRepo:     otpRepo,
		redisClient: redisClient,
		publisher:   publisher,
	}
}

func (m *otpManager) Issue(
	ctx context.Context, phone string, purpose entity.OTPPurpose,
) (*model.RequestOTPResponse, error) {
	cfg := xcontext.Configs(ctx).OTP

	ok, err := m.redisClient.SetNX(ctx, common.RedisKeyOTPCooldown(phone, purpose), "1", cfg.Cooldown)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set otp cooldown: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		wait, err := m.redisClient.TTL(ctx, common.RedisKeyOTPCooldown(phone, purpose))
		if err != nil || wait <= 0 {
			wait = cfg.Cooldown
		}

		return nil, errorx.New(errorx.TooManyRequests,
			"Please wait %d seconds before requesting a new code", int(math.Ceil(wait.Seconds())))
	}

	code := crypto.GenerateNumericCode(cfg.Length)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := m.otpRepo.InvalidateUnused(ctx, phone, purpose); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate old otps: %v", err)
		return nil, errorx.Unknown
	}

	err = m.otpRepo.Create(ctx, &entity.OTP{
		ID:        uuid.NewString(),
		Phone:     phone,
		Purpose:   purpose,
		CodeHash:  crypto.SHA256([]byte(code)),
		ExpiredAt: time.Now().Add(cfg.Expiration),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create otp: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit otp: %v", err)
		return nil, errorx.Unknown
	}

	b, err := json.Marshal(model.OTPEvent{Phone: phone, Purpose: string(purpose), Code: code})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal otp event: %v", err)
		return nil, errorx.Unknown
	}

	if err := m.publisher.Publish(ctx, model.OTPTopic, &pubsub.Pack{Key: []byte(phone), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish otp event: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot send the code, please try again later")
	}

	return &model.RequestOTPResponse{ExpiresIn: int(cfg.Expiration.Seconds())}, nil
}

// Verify consumes the code. It joins the database transaction of ctx if any, so
// the code is consumed only if the guarded action commits.
func (m *otpManager) Verify(ctx context.Context, phone string, purpose entity.OTPPurpose, code string) error {
	otp, err := m.otpRepo.GetLatestUnused(ctx, phone, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InvalidOTP, "Invalid or expired code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get otp: %v", err)
		return errorx.Unknown
	}

	// Every check counts, so a code dies after MaxAttempts guesses.
	cfg := xcontext.Configs(ctx).OTP
	attempts, err := m.redisClient.Incr(ctx, common.RedisKeyOTPAttempts(otp.ID), cfg.Expiration)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count otp attempts: %v", err)
		return errorx.Unknown
	}

	if attempts > int64(cfg.MaxAttempts) {
		return errorx.New(errorx.InvalidOTP, "Too many attempts, please request a new code")
	}

	if otp.CodeHash != crypto.SHA256([]byte(code)) || time.Now().After(otp.ExpiredAt) {
		return errorx.New(errorx.InvalidOTP, "Invalid or expired code")
	}

	if err := m.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.InvalidOTP, "Invalid or expired code")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark otp as used: %v", err)
		return errorx.Unknown
	}

	return nil
}
