package model

type GetPlatformSettingsRequest struct{}

type GetPlatformSettingsResponse PlatformSettings

// UpdatePlatformSettingsRequest is a partial update, empty fields are kept.
type UpdatePlatformSettingsRequest struct {
	AppName     string       `json:"app_name" structs:"app_name,omitempty"`
	AppLogo     string       `json:"app_logo" structs:"app_logo,omitempty"`
	ThemeColor  string       `json:"theme_color" structs:"theme_color,omitempty"`
	SocialLinks *SocialLinks `json:"social_links" structs:"social_links,omitempty"`
}

type UpdatePlatformSettingsResponse PlatformSettings

type GetPaymentSettingsRequest struct{}

type GetPaymentSettingsResponse struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	QuickAmounts   []int           `json:"quick_amounts"`
}

type UpdatePaymentSettingsRequest struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	QuickAmounts   []int           `json:"quick_amounts"`
}

type UpdatePaymentSettingsResponse struct{}
