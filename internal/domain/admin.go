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
	"github.com/wealthfund/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type AdminDomain interface {
	GetDashboard(context.Context, *model.GetDashboardRequest) (*model.GetDashboardResponse, error)
	GetUsers(context.Context, *model.GetUsersRequest) (*model.GetUsersResponse, error)
	UpdateUser(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	DeleteUser(context.Context, *model.DeleteUserRequest) (*model.DeleteUserResponse, error)
	LoginAsUser(context.Context, *model.LoginAsUserRequest) (*model.LoginAsUserResponse, error)
	ChangePassword(context.Context, *model.ChangeAdminPasswordRequest) (*model.ChangeAdminPasswordResponse, error)
	GetActivityLog(context.Context, *model.GetActivityLogRequest) (*model.GetActivityLogResponse, error)
}

type adminDomain struct {
	userRepo        repository.UserRepository
	adminRepo       repository.AdminRepository
	transactionRepo repository.TransactionRepository
	investmentRepo  repository.InvestmentRepository
	activityLogRepo repository.ActivityLogRepository
	publisher       pubsub.Publisher
	roleVerifier    *common.RoleVerifier
	activity        activityRecorder
}

func NewAdminDomain(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	transactionRepo repository.TransactionRepository,
	investmentRepo repository.InvestmentRepository,
	activityLogRepo repository.ActivityLogRepository,
	publisher pubsub.Publisher,
) *adminDomain {
	return &adminDomain{
		userRepo:        userRepo,
		adminRepo:       adminRepo,
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		activityLogRepo: activityLogRepo,
		publisher:       publisher,
		roleVerifier:    common.NewRoleVerifier(),
		activity:        activityRecorder{activityLogRepo: activityLogRepo},
	}
}

func (d *adminDomain) GetDashboard(
	ctx context.Context, req *model.GetDashboardRequest,
) (*model.GetDashboardResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	total, err := d.userRepo.Count(ctx, repository.UserFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.Unknown
	}

	active, err := d.userRepo.CountActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count active users: %v", err)
		return nil, errorx.Unknown
	}

	invested, err := d.investmentRepo.SumInvestedAmount(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum investments: %v", err)
		return nil, errorx.Unknown
	}

	balance, err := d.userRepo.SumBalance(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum balances: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetDashboardResponse{
		TotalUsers:       total,
		ActiveUsers:      active,
		TotalInvestments: invested,
		PlatformBalance:  balance,
	}, nil
}

func (d *adminDomain) GetUsers(ctx context.Context, req *model.GetUsersRequest) (*model.GetUsersResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	offset, limit := common.Paginate(ctx, req.Offset, req.Limit)
	filter := repository.UserFilter{Q: strings.TrimSpace(req.Q), Offset: offset, Limit: limit}

	users, err := d.userRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.userRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetUsersResponse{Users: []model.User{}, Total: total}
	for i := range users {
		resp.Users = append(resp.Users, model.ConvertUser(&users[i]))
	}

	return resp, nil
}

// UpdateUser applies a partial update. Setting a new balance records the
// difference as a system transaction so the history still explains the
// balance.
func (d *adminDomain) UpdateUser(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errorx.New(errorx.BadRequest, "Name is required")
		}
		updates["name"] = name
	}

	if req.Email != nil {
		if *req.Email != "" {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid email")
			}
		}
		updates["email"] = *req.Email
	}

	if req.Phone != nil {
		if !isValidPhone(*req.Phone) {
			return nil, errorx.New(errorx.BadRequest, "Invalid phone number")
		}
		updates["phone"] = *req.Phone
	}

	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if req.Language != nil {
		if !slices.Contains(supportedLanguages, *req.Language) {
			return nil, errorx.New(errorx.BadRequest, "Unsupported language")
		}
		updates["language"] = *req.Language
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.LuckyDrawChances != nil {
		if *req.LuckyDrawChances < 0 {
			return nil, errorx.New(errorx.BadRequest, "Lucky draw chances must not be negative")
		}
		updates["lucky_draw_chances"] = *req.LuckyDrawChances
	}

	if req.Balance != nil {
		if req.Balance.IsNegative() || !req.Balance.Equal(req.Balance.Round(2)) {
			return nil, errorx.New(errorx.BadRequest, "Invalid balance")
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user, err := d.userRepo.GetByIDForUpdate(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	var adjustment *entity.Transaction
	if req.Balance != nil && !req.Balance.Equal(user.Balance) {
		// The delta is only valid against the balance read above.
		if err := d.userRepo.SetBalance(ctx, user.ID, user.Balance, *req.Balance); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.Unavailable, "Balance changed, please retry")
			}

			xcontext.Logger(ctx).Errorf("Cannot set balance: %v", err)
			return nil, errorx.Unknown
		}

		delta := req.Balance.Sub(user.Balance)
		adjustment = &entity.Transaction{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			UserID:        user.ID,
			Type:          entity.TransactionSystem,
			Status:        entity.TransactionCompleted,
			Amount:        delta,
			Description:   "Balance adjusted by admin",
		}
		if err := d.transactionRepo.Create(ctx, adjustment); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create adjustment transaction: %v", err)
			return nil, errorx.Unknown
		}
	}

	if len(updates) > 0 {
		if err := d.userRepo.UpdateByID(ctx, user.ID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errorx.New(errorx.AlreadyExists, "Phone number already registered")
			}

			xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
			return nil, errorx.Unknown
		}
	}

	user, err = d.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Updated user "+user.ID)
	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit user update: %v", err)
		return nil, errorx.Unknown
	}

	if adjustment != nil {
		publishLedgerEvent(ctx, d.publisher, user, adjustment)
	}

	return &model.UpdateUserResponse{User: model.ConvertUser(user)}, nil
}

func (d *adminDomain) DeleteUser(
	ctx context.Context, req *model.DeleteUserRequest,
) (*model.DeleteUserResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.userRepo.DeleteByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete user: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Deleted user "+req.ID)
	return &model.DeleteUserResponse{}, nil
}

func (d *adminDomain) LoginAsUser(
	ctx context.Context, req *model.LoginAsUserRequest,
) (*model.LoginAsUserResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	user, err := d.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	token, err := generateAccessToken(ctx, user.ID, entity.UserRole)
	if err != nil {
		return nil, err
	}

	d.activity.record(ctx, user.ID, user.Name, "Admin logged in as user")
	return &model.LoginAsUserResponse{AccessToken: token}, nil
}

func (d *adminDomain) ChangePassword(
	ctx context.Context, req *model.ChangeAdminPasswordRequest,
) (*model.ChangeAdminPasswordResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if len(req.NewPassword) < minPasswordLength {
		return nil, errorx.New(errorx.BadRequest, "Password must be at least %d characters", minPasswordLength)
	}

	admin, err := d.adminRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Admin not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get admin: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.CheckPassword(admin.Password, req.OldPassword) {
		return nil, errorx.New(errorx.IncorrectPassword, "Incorrect password")
	}

	hashed, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.adminRepo.UpdatePassword(ctx, admin.ID, hashed); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update admin password: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, admin.ID, admin.Username, "Admin changed password")
	return &model.ChangeAdminPasswordResponse{}, nil
}

func (d *adminDomain) GetActivityLog(
	ctx context.Context, req *model.GetActivityLogRequest,
) (*model.GetActivityLogResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	offset, limit := common.Paginate(ctx, req.Offset, req.Limit)
	logs, err := d.activityLogRepo.GetList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activity log: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.activityLogRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count activity log: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetActivityLogResponse{Logs: []model.ActivityLog{}, Total: total}
	for i := range logs {
		resp.Logs = append(resp.Logs, model.ConvertActivityLog(&logs[i]))
	}

	return resp, nil
}
