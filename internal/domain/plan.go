package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PlanDomain interface {
	GetPlans(context.Context, *model.GetPlansRequest) (*model.GetPlansResponse, error)
	CreatePlan(context.Context, *model.CreatePlanRequest) (*model.CreatePlanResponse, error)
	UpdatePlan(context.Context, *model.UpdatePlanRequest) (*model.UpdatePlanResponse, error)
	DeletePlan(context.Context, *model.DeletePlanRequest) (*model.DeletePlanResponse, error)
}

type planDomain struct {
	planRepo     repository.PlanRepository
	roleVerifier *common.RoleVerifier
	activity     activityRecorder
}

func NewPlanDomain(
	planRepo repository.PlanRepository,
	activityLogRepo repository.ActivityLogRepository,
) *planDomain {
	return &planDomain{
		planRepo:     planRepo,
		roleVerifier: common.NewRoleVerifier(),
		activity:     activityRecorder{activityLogRepo: activityLogRepo},
	}
}

func (d *planDomain) GetPlans(ctx context.Context, req *model.GetPlansRequest) (*model.GetPlansResponse, error) {
	plans, err := d.planRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get plans: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPlansResponse{Plans: []model.Plan{}}
	for i := range plans {
		resp.Plans = append(resp.Plans, model.ConvertPlan(&plans[i]))
	}

	return resp, nil
}

func validatePlan(name string, minInvestment, dailyReturn decimal.Decimal, duration int) error {
	if strings.TrimSpace(name) == "" {
		return errorx.New(errorx.BadRequest, "Plan name is required")
	}

	if !minInvestment.IsPositive() {
		return errorx.New(errorx.BadRequest, "Minimum investment must be positive")
	}

	if dailyReturn.IsNegative() {
		return errorx.New(errorx.BadRequest, "Daily return must not be negative")
	}

	if duration < 1 {
		return errorx.New(errorx.BadRequest, "Duration must be at least 1 day")
	}

	return nil
}

func (d *planDomain) CreatePlan(
	ctx context.Context, req *model.CreatePlanRequest,
) (*model.CreatePlanResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := validatePlan(req.Name, req.MinInvestment, req.DailyReturn, req.Duration); err != nil {
		return nil, err
	}

	plan := &entity.Plan{
		Base:          entity.Base{ID: uuid.NewString()},
		Name:          strings.TrimSpace(req.Name),
		MinInvestment: req.MinInvestment,
		DailyReturn:   req.DailyReturn,
		Duration:      req.Duration,
		Category:      req.Category,
	}
	if err := d.planRepo.Create(ctx, plan); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create plan: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Created plan "+plan.Name)
	return &model.CreatePlanResponse{Plan: model.ConvertPlan(plan)}, nil
}

// UpdatePlan never touches existing investments, they keep the figures of the
// plan at purchase time.
func (d *planDomain) UpdatePlan(
	ctx context.Context, req *model.UpdatePlanRequest,
) (*model.UpdatePlanResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	plan, err := d.planRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Plan not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get plan: %v", err)
		return nil, errorx.Unknown
	}

	updates := map[string]any{}
	if req.Name != nil {
		plan.Name = strings.TrimSpace(*req.Name)
		updates["name"] = plan.Name
	}

	if req.MinInvestment != nil {
		plan.MinInvestment = *req.MinInvestment
		updates["min_investment"] = plan.MinInvestment
	}

	if req.DailyReturn != nil {
		plan.DailyReturn = *req.DailyReturn
		updates["daily_return"] = plan.DailyReturn
	}

	if req.Duration != nil {
		plan.Duration = *req.Duration
		updates["duration"] = plan.Duration
	}

	if req.Category != nil {
		plan.Category = *req.Category
		updates["category"] = plan.Category
	}

	if err := validatePlan(plan.Name, plan.MinInvestment, plan.DailyReturn, plan.Duration); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := d.planRepo.UpdateByID(ctx, plan.ID, updates); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update plan: %v", err)
			return nil, errorx.Unknown
		}
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Updated plan "+plan.Name)
	return &model.UpdatePlanResponse{Plan: model.ConvertPlan(plan)}, nil
}

func (d *planDomain) DeletePlan(
	ctx context.Context, req *model.DeletePlanRequest,
) (*model.DeletePlanResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.planRepo.DeleteByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Plan not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete plan: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Deleted plan "+req.ID)
	return &model.DeletePlanResponse{}, nil
}
