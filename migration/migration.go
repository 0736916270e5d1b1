package migration

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/domain"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/crypto"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// Migrate creates the tables with their latest schema and seeds the default
// rows. Rows which already exist are never overwritten, so it is safe to run
// on every deploy.
func Migrate(ctx context.Context) error {
	if err := entity.MigrateTable(ctx); err != nil {
		return err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	seeds := []func(context.Context) error{
		seedAdmin,
		seedPlans,
		seedPrizes,
		seedPaymentMethods,
		seedSettings,
	}
	for _, seed := range seeds {
		if err := seed(ctx); err != nil {
			return err
		}
	}

	return xcontext.WithCommitDBTransaction(ctx)
}

func createIfNotExists(ctx context.Context, value any) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(value).Error
}

func seedAdmin(ctx context.Context) error {
	cfg := xcontext.Configs(ctx).Admin
	hashed, err := crypto.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	return repository.NewAdminRepository().Upsert(ctx, &entity.Admin{
		Base:     entity.Base{ID: uuid.NewString()},
		Username: cfg.Username,
		Password: hashed,
	})
}

func seedPlans(ctx context.Context) error {
	plans := []entity.Plan{
		{
			Base:          entity.Base{ID: "P001"},
			Name:          "Green Energy Fund",
			MinInvestment: decimal.NewFromInt(10000),
			DailyReturn:   decimal.NewFromInt(50),
			Duration:      300,
			Category:      "STABLE",
		},
		{
			Base:          entity.Base{ID: "P002"},
			Name:          "Eco-Friendly Tech",
			MinInvestment: decimal.NewFromInt(5000),
			DailyReturn:   decimal.NewFromInt(30),
			Duration:      180,
			Category:      "STABLE",
		},
		{
			Base:          entity.Base{ID: "P003"},
			Name:          "Solar Power Startup",
			MinInvestment: decimal.NewFromInt(25000),
			DailyReturn:   decimal.NewFromInt(150),
			Duration:      365,
			Category:      "HIGH-YIELD",
		},
		{
			Base:          entity.Base{ID: "P004"},
			Name:          "Wind Farm Project",
			MinInvestment: decimal.NewFromInt(50000),
			DailyReturn:   decimal.NewFromInt(300),
			Duration:      365,
			Category:      "HIGH-YIELD",
		},
	}

	return createIfNotExists(ctx, &plans)
}

func seedPrizes(ctx context.Context) error {
	prize := func(position int, name string, prizeType entity.PrizeType, amount int64) entity.Prize {
		return entity.Prize{
			Base:     entity.Base{ID: "prize-" + strconv.Itoa(position)},
			Name:     name,
			Type:     prizeType,
			Amount:   decimal.NewFromInt(amount),
			Position: position,
		}
	}

	prizes := []entity.Prize{
		prize(1, "₹50", entity.PrizeMoney, 50),
		prize(2, "Thank You", entity.PrizeNothing, 0),
		prize(3, "iPhone 16", entity.PrizePhysical, 0),
		prize(4, "₹100 Bonus", entity.PrizeBonus, 100),
		prize(5, "₹1000", entity.PrizeMoney, 1000),
		prize(6, "Thank You", entity.PrizeNothing, 0),
		prize(7, "Air Conditioner", entity.PrizePhysical, 0),
		prize(8, "Random Bonus", entity.PrizeBonus, 200),
	}

	return createIfNotExists(ctx, &prizes)
}

func seedPaymentMethods(ctx context.Context) error {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.PaymentMethod{}).Count(&count).Error; err != nil {
		return err
	}

	// The admin may have replaced the default method already.
	if count > 0 {
		return nil
	}

	return createIfNotExists(ctx, &entity.PaymentMethod{
		Base:     entity.Base{ID: "pm-1"},
		Name:     "Default UPI",
		UPIID:    "payment@bank",
		IsActive: true,
	})
}

func seedSettings(ctx context.Context) error {
	settings, err := domain.DefaultSettings()
	if err != nil {
		return err
	}

	return createIfNotExists(ctx, &settings)
}
