package model

import "github.com/shopspring/decimal"

const (
	OTPTopic    = "otp"
	LedgerTopic = "ledger"
)

type OTPEvent struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
}

type LedgerEvent struct {
	UserID        string          `json:"user_id"`
	UserName      string          `json:"user_name"`
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}
