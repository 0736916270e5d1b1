package entity

import (
	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/pkg/enum"
)

type TransactionType string

var (
	TransactionDeposit    = enum.New(TransactionType("deposit"))
	TransactionWithdrawal = enum.New(TransactionType("withdrawal"))
	TransactionInvestment = enum.New(TransactionType("investment"))
	TransactionReward     = enum.New(TransactionType("reward"))
	TransactionPrize      = enum.New(TransactionType("prize"))
	TransactionSystem     = enum.New(TransactionType("system"))
)

type TransactionStatus string

var (
	TransactionPending   = enum.New(TransactionStatus("pending"))
	TransactionCompleted = enum.New(TransactionStatus("completed"))
	TransactionExpired   = enum.New(TransactionStatus("expired"))
)

// Transaction is a ledger row. Amount is signed: credits are positive and
// debits are negative.
type Transaction struct {
	SnowFlakeBase

	UserID string `gorm:"index;size:64"`
	User   User   `gorm:"foreignKey:UserID"`

	Type        TransactionType   `gorm:"size:16;index"`
	Status      TransactionStatus `gorm:"size:16;index"`
	Amount      decimal.Decimal   `gorm:"type:decimal(20,2);not null"`
	Tax         decimal.Decimal   `gorm:"type:decimal(20,2);not null"`
	Description string
	IsRead      bool
}
