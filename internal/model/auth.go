package model

type RequestOTPRequest struct {
	Phone string `json:"phone"`
}

type RequestOTPResponse struct {
	ExpiresIn int `json:"expires_in"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type RegisterResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
}

type ResetPasswordRequest struct {
	Phone       string `json:"phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordResponse struct{}

// AccessToken is the payload of every issued JWT.
type AccessToken struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (r *RegisterResponse) AccessTokenInfo() string {
	return r.AccessToken
}

func (r *LoginResponse) AccessTokenInfo() string {
	return r.AccessToken
}

func (r *AdminLoginResponse) AccessTokenInfo() string {
	return r.AccessToken
}

func (r *LoginAsUserResponse) AccessTokenInfo() string {
	return r.AccessToken
}
