package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Plan struct {
	Base

	Name          string
	MinInvestment decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	DailyReturn   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Duration      int
	Category      string `gorm:"size:32"`
}

// Investment is a purchased position. Plan fields are copied at purchase time
// and never follow later edits of the plan.
type Investment struct {
	Base

	UserID string `gorm:"index;size:64"`
	User   User   `gorm:"foreignKey:UserID"`

	PlanID         string `gorm:"size:64"`
	PlanName       string
	Category       string          `gorm:"size:32"`
	InvestedAmount decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	TotalRevenue   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	DailyEarnings  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	RevenueDays    int
	Quantity       int
	StartDate      time.Time
}
