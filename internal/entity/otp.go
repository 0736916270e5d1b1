package entity

import (
	"database/sql"
	"time"

	"github.com/wealthfund/backend/pkg/enum"
)

type OTPPurpose string

var (
	OTPRegister      = enum.New(OTPPurpose("register"))
	OTPResetPassword = enum.New(OTPPurpose("reset_password"))
	OTPBankAccount   = enum.New(OTPPurpose("bank_account"))
	OTPFundPassword  = enum.New(OTPPurpose("fund_password"))
)

type OTP struct {
	ID        string     `gorm:"primaryKey;size:64"`
	Phone     string     `gorm:"index:idx_otp_phone_purpose;size:20"`
	Purpose   OTPPurpose `gorm:"index:idx_otp_phone_purpose;size:16"`
	CodeHash  string
	ExpiredAt time.Time `gorm:"index"`
	UsedAt    sql.NullTime
	CreatedAt time.Time
}

func (OTP) TableName() string {
	return "otps"
}
