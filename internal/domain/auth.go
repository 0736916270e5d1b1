package domain

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/crypto"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/xcontext"
	"github.com/wealthfund/backend/pkg/xredis"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type AuthDomain interface {
	RequestRegisterOTP(context.Context, *model.RequestOTPRequest) (*model.RequestOTPResponse, error)
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	AdminLogin(context.Context, *model.AdminLoginRequest) (*model.AdminLoginResponse, error)
	RequestPasswordResetOTP(context.Context, *model.RequestOTPRequest) (*model.RequestOTPResponse, error)
	ResetPassword(context.Context, *model.ResetPasswordRequest) (*model.ResetPasswordResponse, error)
}

type authDomain struct {
	userRepo          repository.UserRepository
	adminRepo         repository.AdminRepository
	loginActivityRepo repository.LoginActivityRepository
	otp               *otpManager
	activity          activityRecorder
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	loginActivityRepo repository.LoginActivityRepository,
	otpRepo repository.OTPRepository,
	activityLogRepo repository.ActivityLogRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *authDomain {
	return &authDomain{
		userRepo:          userRepo,
		adminRepo:         adminRepo,
		loginActivityRepo: loginActivityRepo,
		otp:               newOTPManager(otpRepo, redisClient, publisher),
		activity:          activityRecorder{activityLogRepo: activityLogRepo},
	}
}

func (d *authDomain) RequestRegisterOTP(
	ctx context.Context, req *model.RequestOTPRequest,
) (*model.RequestOTPResponse, error) {
	if !isValidPhone(req.Phone) {
		return nil, errorx.New(errorx.BadRequest, "Invalid phone number")
	}

	exists, err := d.userRepo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check phone: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Phone number already registered")
	}

	return d.otp.Issue(ctx, req.Phone, entity.OTPRegister)
}

func (d *authDomain) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Name is required")
	}

	if !isValidPhone(req.Phone) {
		return nil, errorx.New(errorx.BadRequest, "Invalid phone number")
	}

	if len(req.Password) < minPasswordLength {
		return nil, errorx.New(errorx.BadRequest, "Password must be at least %d characters", minPasswordLength)
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx)
	id := uuid.NewString()
	user := &entity.User{
		Base:             entity.Base{ID: id},
		Phone:            req.Phone,
		Password:         hashed,
		Name:             req.Name,
		Avatar:           "https://i.pravatar.cc/150?u=" + id,
		Language:         "en",
		IsActive:         true,
		LuckyDrawChances: cfg.Ledger.RegisterLuckyDrawChances,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.otp.Verify(ctx, req.Phone, entity.OTPRegister, req.OTP); err != nil {
		return nil, err
	}

	exists, err := d.userRepo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check phone: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Phone number already registered")
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Phone number already registered")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, user.ID, user.Name, "User registered")
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit registration: %v", err)
		return nil, errorx.Unknown
	}

	token, err := generateAccessToken(ctx, user.ID, entity.UserRole)
	if err != nil {
		return nil, err
	}

	return &model.RegisterResponse{User: model.ConvertUser(user), AccessToken: token}, nil
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByPhone(ctx, req.Identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = d.userRepo.GetByID(ctx, req.Identifier)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid credentials")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.CheckPassword(user.Password, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid credentials")
	}

	if !user.IsActive {
		return nil, errorx.New(errorx.AccountBlocked, "Your account has been blocked")
	}

	activity := &entity.LoginActivity{UserID: user.ID}
	if httpReq := xcontext.HTTPRequest(ctx); httpReq != nil {
		activity.Device = describeDevice(httpReq.UserAgent())
		activity.IP = clientIP(httpReq)
	}

	if err := d.loginActivityRepo.Create(ctx, activity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create login activity: %v", err)
		return nil, errorx.Unknown
	}

	token, err := generateAccessToken(ctx, user.ID, entity.UserRole)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{User: model.ConvertUser(user), AccessToken: token}, nil
}

func (d *authDomain) AdminLogin(
	ctx context.Context, req *model.AdminLoginRequest,
) (*model.AdminLoginResponse, error) {
	admin, err := d.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid admin credentials")
		}

		xcontext.Logger(ctx).Errorf("Cannot get admin: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.CheckPassword(admin.Password, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid admin credentials")
	}

	token, err := generateAccessToken(ctx, admin.ID, entity.AdminRole)
	if err != nil {
		return nil, err
	}

	d.activity.record(ctx, admin.ID, admin.Username, "Admin logged in")
	return &model.AdminLoginResponse{AccessToken: token}, nil
}

func (d *authDomain) RequestPasswordResetOTP(
	ctx context.Context, req *model.RequestOTPRequest,
) (*model.RequestOTPResponse, error) {
	if _, err := d.userRepo.GetByPhone(ctx, req.Phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Phone number not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return d.otp.Issue(ctx, req.Phone, entity.OTPResetPassword)
}

func (d *authDomain) ResetPassword(
	ctx context.Context, req *model.ResetPasswordRequest,
) (*model.ResetPasswordResponse, error) {
	if len(req.NewPassword) < minPasswordLength {
		return nil, errorx.New(errorx.BadRequest, "Password must be at least %d characters", minPasswordLength)
	}

	hashed, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.otp.Verify(ctx, req.Phone, entity.OTPResetPassword, req.OTP); err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Phone number not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateByID(ctx, user.ID, map[string]any{"password": hashed}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update password: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, user.ID, user.Name, "Password reset")
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit password reset: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ResetPasswordResponse{}, nil
}

func generateAccessToken(ctx context.Context, id string, role entity.Role) (string, error) {
	cfg := xcontext.Configs(ctx).Auth
	expiration := cfg.AccessToken.Expiration
	if role == entity.AdminRole {
		expiration = cfg.AdminToken.Expiration
	}

	token, err := xcontext.TokenEngine(ctx).Generate(expiration, model.AccessToken{ID: id, Role: string(role)})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return "", errorx.Unknown
	}

	return token, nil
}

func isValidPhone(phone string) bool {
	if len(phone) < 8 || len(phone) > 15 {
		return false
	}

	for i := 0; i < len(phone); i++ {
		if phone[i] < '0' || phone[i] > '9' {
			return false
		}
	}

	return true
}

var (
	knownBrowsers = []string{"Edg", "OPR", "Chrome", "Firefox", "Safari"}
	knownSystems  = []string{"Windows", "Android", "iPhone", "iPad", "Mac OS", "Linux"}
	browserNames  = map[string]string{"Edg": "Edge", "OPR": "Opera"}
)

// describeDevice turns a user agent into a short label such as
// "Chrome on Windows".
func describeDevice(userAgent string) string {
	browser, system := "Unknown browser", "unknown device"
	for _, b := range knownBrowsers {
		if strings.Contains(userAgent, b) {
			browser = b
			if name, ok := browserNames[b]; ok {
				browser = name
			}
			break
		}
	}

	for _, s := range knownSystems {
		if strings.Contains(userAgent, s) {
			system = s
			break
		}
	}

	return browser + " on " + system
}

func clientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}
