package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/enum"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PrizeDomain interface {
	GetLuckyDrawWheel(context.Context, *model.GetLuckyDrawWheelRequest) (*model.GetLuckyDrawWheelResponse, error)
	GetPrizes(context.Context, *model.GetPrizesRequest) (*model.GetPrizesResponse, error)
	CreatePrize(context.Context, *model.CreatePrizeRequest) (*model.CreatePrizeResponse, error)
	UpdatePrize(context.Context, *model.UpdatePrizeRequest) (*model.UpdatePrizeResponse, error)
	DeletePrize(context.Context, *model.DeletePrizeRequest) (*model.DeletePrizeResponse, error)
}

type prizeDomain struct {
	prizeRepo    repository.PrizeRepository
	roleVerifier *common.RoleVerifier
	activity     activityRecorder
}

func NewPrizeDomain(
	prizeRepo repository.PrizeRepository,
	activityLogRepo repository.ActivityLogRepository,
) *prizeDomain {
	return &prizeDomain{
		prizeRepo:    prizeRepo,
		roleVerifier: common.NewRoleVerifier(),
		activity:     activityRecorder{activityLogRepo: activityLogRepo},
	}
}

// loadWheel returns exactly Ledger.WheelSlots prizes: the first ones by
// position, padded with "Thank You" slots.
func loadWheel(ctx context.Context, prizeRepo repository.PrizeRepository) ([]entity.Prize, error) {
	slots := xcontext.Configs(ctx).Ledger.WheelSlots
	prizes, err := prizeRepo.GetList(ctx, slots)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	for len(prizes) < slots {
		prizes = append(prizes, entity.Prize{
			Base:     entity.Base{ID: "filler-" + strconv.Itoa(len(prizes)+1)},
			Name:     "Thank You",
			Type:     entity.PrizeNothing,
			Amount:   decimal.Zero,
			Position: len(prizes) + 1,
		})
	}

	return prizes, nil
}

func (d *prizeDomain) GetLuckyDrawWheel(
	ctx context.Context, req *model.GetLuckyDrawWheelRequest,
) (*model.GetLuckyDrawWheelResponse, error) {
	wheel, err := loadWheel(ctx, d.prizeRepo)
	if err != nil {
		return nil, err
	}

	resp := &model.GetLuckyDrawWheelResponse{Prizes: []model.Prize{}}
	for i := range wheel {
		resp.Prizes = append(resp.Prizes, model.ConvertPrize(&wheel[i]))
	}

	return resp, nil
}

func (d *prizeDomain) GetPrizes(ctx context.Context, req *model.GetPrizesRequest) (*model.GetPrizesResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	prizes, err := d.prizeRepo.GetList(ctx, 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetPrizesResponse{Prizes: []model.Prize{}}
	for i := range prizes {
		resp.Prizes = append(resp.Prizes, model.ConvertPrize(&prizes[i]))
	}

	return resp, nil
}

func validatePrize(name string, prizeType entity.PrizeType, amount decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return errorx.New(errorx.BadRequest, "Prize name is required")
	}

	if (prizeType == entity.PrizeMoney || prizeType == entity.PrizeBonus) && !amount.IsPositive() {
		return errorx.New(errorx.BadRequest, "Money and bonus prizes need a positive amount")
	}

	if amount.IsNegative() {
		return errorx.New(errorx.BadRequest, "Amount must not be negative")
	}

	return nil
}

func (d *prizeDomain) CreatePrize(
	ctx context.Context, req *model.CreatePrizeRequest,
) (*model.CreatePrizeResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	prizeType, err := enum.ToEnum[entity.PrizeType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid prize type")
	}

	if err := validatePrize(req.Name, prizeType, req.Amount); err != nil {
		return nil, err
	}

	prize := &entity.Prize{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     strings.TrimSpace(req.Name),
		Type:     prizeType,
		Amount:   req.Amount,
		Position: req.Position,
	}
	if err := d.prizeRepo.Create(ctx, prize); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prize: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Created prize "+prize.Name)
	return &model.CreatePrizeResponse{Prize: model.ConvertPrize(prize)}, nil
}

func (d *prizeDomain) UpdatePrize(
	ctx context.Context, req *model.UpdatePrizeRequest,
) (*model.UpdatePrizeResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	prize, err := d.prizeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Prize not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize: %v", err)
		return nil, errorx.Unknown
	}

	updates := map[string]any{}
	if req.Name != nil {
		prize.Name = strings.TrimSpace(*req.Name)
		updates["name"] = prize.Name
	}

	if req.Type != nil {
		prizeType, err := enum.ToEnum[entity.PrizeType](*req.Type)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid prize type")
		}
		prize.Type = prizeType
		updates["type"] = prize.Type
	}

	if req.Amount != nil {
		prize.Amount = *req.Amount
		updates["amount"] = prize.Amount
	}

	if req.Position != nil {
		prize.Position = *req.Position
		updates["position"] = prize.Position
	}

	if err := validatePrize(prize.Name, prize.Type, prize.Amount); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := d.prizeRepo.UpdateByID(ctx, prize.ID, updates); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update prize: %v", err)
			return nil, errorx.Unknown
		}
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Updated prize "+prize.Name)
	return &model.UpdatePrizeResponse{Prize: model.ConvertPrize(prize)}, nil
}

func (d *prizeDomain) DeletePrize(
	ctx context.Context, req *model.DeletePrizeRequest,
) (*model.DeletePrizeResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.prizeRepo.DeleteByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Prize not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete prize: %v", err)
		return nil, errorx.Unknown
	}

	d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Deleted prize "+req.ID)
	return &model.DeletePrizeResponse{}, nil
}
