package model

import "github.com/shopspring/decimal"

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	TotalUsers       int64           `json:"total_users"`
	ActiveUsers      int64           `json:"active_users"`
	TotalInvestments decimal.Decimal `json:"total_investments"`
	PlatformBalance  decimal.Decimal `json:"platform_balance"`
}

type GetUsersRequest struct {
	Q      string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type GetUsersResponse struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
}

// UpdateUserRequest is a partial update, nil fields are kept.
type UpdateUserRequest struct {
	ID               string           `json:"id"`
	Name             *string          `json:"name"`
	Email            *string          `json:"email"`
	Phone            *string          `json:"phone"`
	Avatar           *string          `json:"avatar"`
	Language         *string          `json:"language"`
	IsActive         *bool            `json:"is_active"`
	LuckyDrawChances *int             `json:"lucky_draw_chances"`
	Balance          *decimal.Decimal `json:"balance"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

type DeleteUserRequest struct {
	ID string `json:"id"`
}

type DeleteUserResponse struct{}

type LoginAsUserRequest struct {
	ID string `json:"id"`
}

type LoginAsUserResponse struct {
	AccessToken string `json:"access_token"`
}

type ChangeAdminPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ChangeAdminPasswordResponse struct{}

type GetActivityLogRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetActivityLogResponse struct {
	Logs  []ActivityLog `json:"logs"`
	Total int64         `json:"total"`
}

type CreatePlanRequest struct {
	Name          string          `json:"name"`
	MinInvestment decimal.Decimal `json:"min_investment"`
	DailyReturn   decimal.Decimal `json:"daily_return"`
	Duration      int             `json:"duration"`
	Category      string          `json:"category"`
}

type CreatePlanResponse struct {
	Plan Plan `json:"plan"`
}

type UpdatePlanRequest struct {
	ID            string           `json:"id"`
	Name          *string          `json:"name"`
	MinInvestment *decimal.Decimal `json:"min_investment"`
	DailyReturn   *decimal.Decimal `json:"daily_return"`
	Duration      *int             `json:"duration"`
	Category      *string          `json:"category"`
}

type UpdatePlanResponse struct {
	Plan Plan `json:"plan"`
}

type DeletePlanRequest struct {
	ID string `json:"id"`
}

type DeletePlanResponse struct{}

type GetPrizesRequest struct{}

type GetPrizesResponse struct {
	Prizes []Prize `json:"prizes"`
}

type CreatePrizeRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Position int             `json:"position"`
}

type CreatePrizeResponse struct {
	Prize Prize `json:"prize"`
}

type UpdatePrizeRequest struct {
	ID       string           `json:"id"`
	Name     *string          `json:"name"`
	Type     *string          `json:"type"`
	Amount   *decimal.Decimal `json:"amount"`
	Position *int             `json:"position"`
}

type UpdatePrizeResponse struct {
	Prize Prize `json:"prize"`
}

type DeletePrizeRequest struct {
	ID string `json:"id"`
}

type DeletePrizeResponse struct{}
