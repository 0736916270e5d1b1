package model

import "github.com/shopspring/decimal"

type User struct {
	ID               string          `json:"id"`
	Phone            string          `json:"phone"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Avatar           string          `json:"avatar"`
	Language         string          `json:"language"`
	Balance          decimal.Decimal `json:"balance"`
	TotalReturns     decimal.Decimal `json:"total_returns"`
	RechargeAmount   decimal.Decimal `json:"recharge_amount"`
	Withdrawals      decimal.Decimal `json:"withdrawals"`
	IsActive         bool            `json:"is_active"`
	LuckyDrawChances int             `json:"lucky_draw_chances"`
	HasFundPassword  bool            `json:"has_fund_password"`
	CreatedAt        string          `json:"created_at"`
}

type BankAccount struct {
	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
}

type LoginActivity struct {
	Device    string `json:"device"`
	IP        string `json:"ip"`
	CreatedAt string `json:"created_at"`
}

type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Tax         decimal.Decimal `json:"tax"`
	Description string          `json:"description"`
	IsRead      bool            `json:"is_read"`
	CreatedAt   string          `json:"created_at"`
}

type Investment struct {
	ID             string          `json:"id"`
	PlanID         string          `json:"plan_id"`
	PlanName       string          `json:"plan_name"`
	Category       string          `json:"category"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	DailyEarnings  decimal.Decimal `json:"daily_earnings"`
	RevenueDays    int             `json:"revenue_days"`
	Quantity       int             `json:"quantity"`
	StartDate      string          `json:"start_date"`
}

type Plan struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	MinInvestment decimal.Decimal `json:"min_investment"`
	DailyReturn   decimal.Decimal `json:"daily_return"`
	Duration      int             `json:"duration"`
	Category      string          `json:"category"`
}

type Prize struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Position int             `json:"position"`
}

type Comment struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name"`
	UserAvatar  string   `json:"user_avatar"`
	MaskedPhone string   `json:"masked_phone"`
	Text        string   `json:"text"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"created_at"`
}

type ChatMessage struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	SenderID  string `json:"sender_id"`
	Text      string `json:"text,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ChatSession struct {
	UserID           string        `json:"user_id"`
	UserName         string        `json:"user_name,omitempty"`
	UserPhone        string        `json:"user_phone,omitempty"`
	LastMessageAt    string        `json:"last_message_at"`
	UserUnreadCount  int           `json:"user_unread_count"`
	AdminUnreadCount int           `json:"admin_unread_count"`
	Messages         []ChatMessage `json:"messages"`
}

type ActivityLog struct {
	ID        uint   `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Action    string `json:"action"`
	CreatedAt string `json:"created_at"`
}

type PaymentMethod struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UPIID    string `json:"upi_id"`
	QRCode   string `json:"qr_code"`
	IsActive bool   `json:"is_active"`
}

type SocialLinks struct {
	Telegram string `json:"telegram" mapstructure:"telegram" structs:"telegram,omitempty"`
	Whatsapp string `json:"whatsapp" mapstructure:"whatsapp" structs:"whatsapp,omitempty"`
}

type PlatformSettings struct {
	AppName             string      `json:"app_name" mapstructure:"app_name" structs:"app_name"`
	AppLogo             string      `json:"app_logo" mapstructure:"app_logo" structs:"app_logo"`
	ThemeColor          string      `json:"theme_color" mapstructure:"theme_color" structs:"theme_color"`
	SocialLinks         SocialLinks `json:"social_links" mapstructure:"social_links" structs:"social_links"`
	PaymentQuickAmounts []int       `json:"payment_quick_amounts" mapstructure:"quick_amounts" structs:"quick_amounts"`
}
