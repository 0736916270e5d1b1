package domain

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/crypto"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/storage"
	"github.com/wealthfund/backend/pkg/xcontext"
	"github.com/wealthfund/backend/pkg/xredis"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	recentTransactionsLimit = 20
	recentLoginLimit        = 10
)

var supportedLanguages = []string{"en", "hi", "zh", "es", "fr", "ar"}

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	UpdateProfile(context.Context, *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error)
	UploadAvatar(context.Context, *model.UploadAvatarRequest) (*model.UploadAvatarResponse, error)
	ChangePassword(context.Context, *model.ChangePasswordRequest) (*model.ChangePasswordResponse, error)
	RequestBankAccountOTP(context.Context, *model.RequestMyOTPRequest) (*model.RequestOTPResponse, error)
	UpdateBankAccount(context.Context, *model.UpdateBankAccountRequest) (*model.UpdateBankAccountResponse, error)
	RequestFundPasswordOTP(context.Context, *model.RequestMyOTPRequest) (*model.RequestOTPResponse, error)
	UpdateFundPassword(context.Context, *model.UpdateFundPasswordRequest) (*model.UpdateFundPasswordResponse, error)
	GetTransactions(context.Context, *model.GetTransactionsRequest) (*model.GetTransactionsResponse, error)
	GetInvestments(context.Context, *model.GetInvestmentsRequest) (*model.GetInvestmentsResponse, error)
	MarkNotificationsAsRead(
		context.Context, *model.MarkNotificationsAsReadRequest,
	) (*model.MarkNotificationsAsReadResponse, error)
}

type userDomain struct {
	userRepo          repository.UserRepository
	bankAccountRepo   repository.BankAccountRepository
	transactionRepo   repository.TransactionRepository
	investmentRepo    repository.InvestmentRepository
	loginActivityRepo repository.LoginActivityRepository
	checkInRepo       repository.CheckInRepository
	storage           storage.Storage
	otp               *otpManager
	activity          activityRecorder
}

func NewUserDomain(
	userRepo repository.UserRepository,
	bankAccountRepo repository.BankAccountRepository,
	transactionRepo repository.TransactionRepository,
	investmentRepo repository.InvestmentRepository,
	loginActivityRepo repository.LoginActivityRepository,
	checkInRepo repository.CheckInRepository,
	otpRepo repository.OTPRepository,
	activityLogRepo repository.ActivityLogRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
	storage storage.Storage,
) *userDomain {
	return &userDomain{
		userRepo:          userRepo,
		bankAccountRepo:   bankAccountRepo,
		transactionRepo:   transactionRepo,
		investmentRepo:    investmentRepo,
		loginActivityRepo: loginActivityRepo,
		checkInRepo:       checkInRepo,
		storage:           storage,
		otp:               newOTPManager(otpRepo, redisClient, publisher),
		activity:          activityRecorder{activityLogRepo: activityLogRepo},
	}
}

func (d *userDomain) getRequestUser(ctx context.Context) (*entity.User, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	var bankAccount *model.BankAccount
	account, err := d.bankAccountRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		bankAccount = model.ConvertBankAccount(account)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		xcontext.Logger(ctx).Errorf("Cannot get bank account: %v", err)
		return nil, errorx.Unknown
	}

	txs, err := d.transactionRepo.GetByUserID(ctx, user.ID, 0, recentTransactionsLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	unread, err := d.transactionRepo.CountUnread(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count unread transactions: %v", err)
		return nil, errorx.Unknown
	}

	investments, err := d.investmentRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get investments: %v", err)
		return nil, errorx.Unknown
	}

	logins, err := d.loginActivityRepo.GetByUserID(ctx, user.ID, recentLoginLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get login activities: %v", err)
		return nil, errorx.Unknown
	}

	days, err := d.checkInRepo.GetDays(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get check-in days: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMeResponse{
		User:                model.ConvertUser(user),
		BankAccount:         bankAccount,
		Transactions:        []model.Transaction{},
		Investments:         []model.Investment{},
		LoginActivities:     []model.LoginActivity{},
		CheckInDays:         days,
		UnreadNotifications: unread,
	}

	for i := range txs {
		resp.Transactions = append(resp.Transactions, model.ConvertTransaction(&txs[i]))
	}

	for i := range investments {
		resp.Investments = append(resp.Investments, model.ConvertInvestment(&investments[i]))
	}

	for i := range logins {
		resp.LoginActivities = append(resp.LoginActivities, model.ConvertLoginActivity(&logins[i]))
	}

	if resp.CheckInDays == nil {
		resp.CheckInDays = []string{}
	}

	return resp, nil
}

func (d *userDomain) UpdateProfile(
	ctx context.Context, req *model.UpdateProfileRequest,
) (*model.UpdateProfileResponse, error) {
	updates := map[string]any{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid email")
		}
		updates["email"] = req.Email
	}

	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}

	if req.Language != "" {
		if !slices.Contains(supportedLanguages, req.Language) {
			return nil, errorx.New(errorx.BadRequest, "Unsupported language")
		}
		updates["language"] = req.Language
	}

	userID := xcontext.RequestUserID(ctx)
	if len(updates) > 0 {
		if err := d.userRepo.UpdateByID(ctx, userID, updates); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update profile: %v", err)
			return nil, errorx.Unknown
		}
	}

	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	return &model.UpdateProfileResponse{User: model.ConvertUser(user)}, nil
}

func (d *userDomain) UploadAvatar(
	ctx context.Context, req *model.UploadAvatarRequest,
) (*model.UploadAvatarResponse, error) {
	resps, err := common.ProcessAvatar(ctx, d.storage, "image")
	if err != nil {
		return nil, err
	}

	// The second size is the one shown in profiles.
	avatar := resps[0].Url
	if len(resps) > 1 {
		avatar = resps[1].Url
	}

	if err := d.userRepo.UpdateByID(ctx, xcontext.RequestUserID(ctx), map[string]any{"avatar": avatar}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update avatar: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UploadAvatarResponse{Avatar: avatar}, nil
}

func (d *userDomain) ChangePassword(
	ctx context.Context, req *model.ChangePasswordRequest,
) (*model.ChangePasswordResponse, error) {
	if len(req.NewPassword) < minPasswordLength {
		return nil, errorx.New(errorx.BadRequest, "Password must be at least %d characters", minPasswordLength)
	}

	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	if !crypto.CheckPassword(user.Password, req.OldPassword) {
		return nil, errorx.New(errorx.IncorrectPassword, "Incorrect current password")
	}

	hashed, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateByID(ctx, user.ID, map[string]any{"password": hashed}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update password: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, user.ID, user.Name, "Password changed")
	return &model.ChangePasswordResponse{}, nil
}

func (d *userDomain) RequestBankAccountOTP(
	ctx context.Context, req *model.RequestMyOTPRequest,
) (*model.RequestOTPResponse, error) {
	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	return d.otp.Issue(ctx, user.Phone, entity.OTPBankAccount)
}

func (d *userDomain) UpdateBankAccount(
	ctx context.Context, req *model.UpdateBankAccountRequest,
) (*model.UpdateBankAccountResponse, error) {
	account := &entity.BankAccount{
		AccountHolder: strings.TrimSpace(req.AccountHolder),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		IFSCCode:      strings.ToUpper(strings.TrimSpace(req.IFSCCode)),
	}
	if account.AccountHolder == "" || account.AccountNumber == "" || account.IFSCCode == "" {
		return nil, errorx.New(errorx.BadRequest, "Account holder, account number and IFSC code are required")
	}

	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}
	account.UserID = user.ID

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.otp.Verify(ctx, user.Phone, entity.OTPBankAccount, req.OTP); err != nil {
		return nil, err
	}

	if err := d.bankAccountRepo.Upsert(ctx, account); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert bank account: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, user.ID, user.Name, "Bank account updated")
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit bank account: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateBankAccountResponse{BankAccount: *model.ConvertBankAccount(account)}, nil
}

func (d *userDomain) RequestFundPasswordOTP(
	ctx context.Context, req *model.RequestMyOTPRequest,
) (*model.RequestOTPResponse, error) {
	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	return d.otp.Issue(ctx, user.Phone, entity.OTPFundPassword)
}

func (d *userDomain) UpdateFundPassword(
	ctx context.Context, req *model.UpdateFundPasswordRequest,
) (*model.UpdateFundPasswordResponse, error) {
	if len(req.FundPassword) < minPasswordLength {
		return nil, errorx.New(errorx.BadRequest, "Fund password must be at least %d characters", minPasswordLength)
	}

	user, err := d.getRequestUser(ctx)
	if err != nil {
		return nil, err
	}

	hashed, err := crypto.HashPassword(req.FundPassword)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash fund password: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.otp.Verify(ctx, user.Phone, entity.OTPFundPassword, req.OTP); err != nil {
		return nil, err
	}

	if err := d.userRepo.UpdateByID(ctx, user.ID, map[string]any{"fund_password": hashed}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update fund password: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, user.ID, user.Name, "Fund password updated")
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit fund password: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateFundPasswordResponse{}, nil
}

func (d *userDomain) GetTransactions(
	ctx context.Context, req *model.GetTransactionsRequest,
) (*model.GetTransactionsResponse, error) {
	offset, limit := common.Paginate(ctx, req.Offset, req.Limit)
	txs, err := d.transactionRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetTransactionsResponse{Transactions: []model.Transaction{}}
	for i := range txs {
		resp.Transactions = append(resp.Transactions, model.ConvertTransaction(&txs[i]))
	}

	return resp, nil
}

func (d *userDomain) GetInvestments(
	ctx context.Context, req *model.GetInvestmentsRequest,
) (*model.GetInvestmentsResponse, error) {
	investments, err := d.investmentRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get investments: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetInvestmentsResponse{Investments: []model.Investment{}}
	for i := range investments {
		resp.Investments = append(resp.Investments, model.ConvertInvestment(&investments[i]))
	}

	return resp, nil
}

func (d *userDomain) MarkNotificationsAsRead(
	ctx context.Context, req *model.MarkNotificationsAsReadRequest,
) (*model.MarkNotificationsAsReadResponse, error) {
	if err := d.transactionRepo.MarkAllAsRead(ctx, xcontext.RequestUserID(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark transactions as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkNotificationsAsReadResponse{}, nil
}
