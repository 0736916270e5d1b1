package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/pkg/enum"
)

type Role string

var (
	UserRole  = enum.New(Role("user"))
	AdminRole = enum.New(Role("admin"))
)

type User struct {
	Base

	Phone    string `gorm:"uniqueIndex;size:20"`
	Password string
	Name     string
	Email    string
	Avatar   string
	Language string `gorm:"size:8"`

	Balance        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	TotalReturns   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	RechargeAmount decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Withdrawals    decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	IsActive         bool
	LuckyDrawChances int
	FundPassword     string
}

type BankAccount struct {
	UserID string `gorm:"primaryKey;size:64"`
	User   User   `gorm:"foreignKey:UserID"`

	AccountHolder string
	AccountNumber string
	IFSCCode      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LoginActivity struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"index;size:64"`
	User   User   `gorm:"foreignKey:UserID"`

	Device    string
	IP        string
	CreatedAt time.Time
}

type Admin struct {
	Base

	Username string `gorm:"uniqueIndex;size:64"`
	Password string
}
