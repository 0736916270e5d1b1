package model

import "github.com/shopspring/decimal"

type InitiateDepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type InitiateDepositResponse struct {
	TransactionID     string          `json:"transaction_id"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentMethodName string          `json:"payment_method_name"`
	UPIID             string          `json:"upi_id"`
	QRCode            string          `json:"qr_code"`
}

type ConfirmDepositRequest struct {
	TransactionID string `json:"transaction_id"`
}

type ConfirmDepositResponse struct {
	Transaction      Transaction     `json:"transaction"`
	Balance          decimal.Decimal `json:"balance"`
	AlreadyConfirmed bool            `json:"already_confirmed"`
}

type WithdrawRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	FundPassword string          `json:"fund_password"`
}

type WithdrawResponse struct {
	Transaction Transaction     `json:"transaction"`
	Tax         decimal.Decimal `json:"tax"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	Balance     decimal.Decimal `json:"balance"`
}

type InvestRequest struct {
	PlanID   string `json:"plan_id"`
	Quantity int    `json:"quantity"`
}

type InvestResponse struct {
	Investment Investment      `json:"investment"`
	Balance    decimal.Decimal `json:"balance"`
}

type CheckInRequest struct{}

type CheckInResponse struct {
	Day     string          `json:"day"`
	Reward  decimal.Decimal `json:"reward"`
	Balance decimal.Decimal `json:"balance"`
}

type GetLuckyDrawWheelRequest struct{}

type GetLuckyDrawWheelResponse struct {
	Prizes []Prize `json:"prizes"`
}

type PlayLuckyDrawRequest struct{}

type PlayLuckyDrawResponse struct {
	Prize            Prize           `json:"prize"`
	SlotIndex        int             `json:"slot_index"`
	Balance          decimal.Decimal `json:"balance"`
	LuckyDrawChances int             `json:"lucky_draw_chances"`
}

type GetPlansRequest struct{}

type GetPlansResponse struct {
	Plans []Plan `json:"plans"`
}
