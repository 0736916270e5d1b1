package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/pkg/enum"
)

type PrizeType string

var (
	PrizeMoney    = enum.New(PrizeType("money"))
	PrizeBonus    = enum.New(PrizeType("bonus"))
	PrizePhysical = enum.New(PrizeType("physical"))
	PrizeNothing  = enum.New(PrizeType("nothing"))
)

type Prize struct {
	Base

	Name     string
	Type     PrizeType       `gorm:"size:16"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Position int
}

// CheckIn is unique per user and day, so a second check-in on the same day
// fails at the database.
type CheckIn struct {
	UserID string `gorm:"primaryKey;size:64"`
	Day    string `gorm:"primaryKey;size:10"`

	Reward    decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time
}
