package model

type GetMeRequest struct{}

type GetMeResponse struct {
	User                User            `json:"user"`
	BankAccount         *BankAccount    `json:"bank_account"`
	Transactions        []Transaction   `json:"transactions"`
	Investments         []Investment    `json:"investments"`
	LoginActivities     []LoginActivity `json:"login_activities"`
	CheckInDays         []string        `json:"check_in_days"`
	UnreadNotifications int64           `json:"unread_notifications"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Language string `json:"language"`
}

type UpdateProfileResponse struct {
	User User `json:"user"`
}

type UploadAvatarRequest struct{}

type UploadAvatarResponse struct {
	Avatar string `json:"avatar"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordResponse struct{}

type RequestMyOTPRequest struct{}

type UpdateBankAccountRequest struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	OTP           string `json:"otp"`
}

type UpdateBankAccountResponse struct {
	BankAccount BankAccount `json:"bank_account"`
}

type UpdateFundPasswordRequest struct {
	FundPassword string `json:"fund_password"`
	OTP          string `json:"otp"`
}

type UpdateFundPasswordResponse struct{}

type GetTransactionsRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type GetInvestmentsRequest struct{}

type GetInvestmentsResponse struct {
	Investments []Investment `json:"investments"`
}

type MarkNotificationsAsReadRequest struct{}

type MarkNotificationsAsReadResponse struct{}
