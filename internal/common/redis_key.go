package common

import (
	"fmt"

	"github.com/wealthfund/backend/internal/entity"
)

func RedisKeyOTPCooldown(phone string, purpose entity.OTPPurpose) string {
	return fmt.Sprintf("otp_cooldown:%s:%s", purpose, phone)
}

func RedisKeyOTPAttempts(otpID string) string {
	return "otp_attempts:" + otpID
}
