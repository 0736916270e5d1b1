package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/testutil"
)

func Test_planDomain(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := NewPlanDomain(repository.NewPlanRepository(), repository.NewActivityLogRepository())

	plans, err := d.GetPlans(ctx, &model.GetPlansRequest{})
	require.NoError(t, err)
	require.Len(t, plans.Plans, 2)

	_, err = d.CreatePlan(testutil.MockContextWithUserID(ctx, testutil.User1.ID), &model.CreatePlanRequest{})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	created, err := d.CreatePlan(adminCtx, &model.CreatePlanRequest{
		Name:          "Hydro Power",
		MinInvestment: decimal.NewFromInt(2000),
		DailyReturn:   decimal.NewFromInt(12),
		Duration:      90,
		Category:      "STABLE",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Plan.ID)

	duration := 120
	updated, err := d.UpdatePlan(adminCtx, &model.UpdatePlanRequest{ID: created.Plan.ID, Duration: &duration})
	require.NoError(t, err)
	require.Equal(t, 120, updated.Plan.Duration)
	require.Equal(t, "Hydro Power", updated.Plan.Name)

	zero := 0
	_, err = d.UpdatePlan(adminCtx, &model.UpdatePlanRequest{ID: created.Plan.ID, Duration: &zero})
	require.Equal(t, errorx.New(errorx.BadRequest, "Duration must be at least 1 day"), err)

	_, err = d.UpdatePlan(adminCtx, &model.UpdatePlanRequest{ID: "unknown", Duration: &duration})
	require.Equal(t, errorx.New(errorx.NotFound, "Plan not found"), err)

	_, err = d.DeletePlan(adminCtx, &model.DeletePlanRequest{ID: testutil.Plan2.ID})
	require.NoError(t, err)

	plans, err = d.GetPlans(ctx, &model.GetPlansRequest{})
	require.NoError(t, err)
	require.Len(t, plans.Plans, 2)
	for _, p := range plans.Plans {
		require.NotEqual(t, testutil.Plan2.ID, p.ID)
	}
}

func Test_validatePlan(t *testing.T) {
	tests := []struct {
		name     string
		planName string
		min      int64
		daily    int64
		duration int
		wantErr  string
	}{
		{name: "valid", planName: "Plan", min: 100, daily: 1, duration: 1},
		{name: "zero daily return", planName: "Plan", min: 100, daily: 0, duration: 1},
		{name: "empty name", planName: " ", min: 100, daily: 1, duration: 1, wantErr: "Plan name is required"},
		{name: "zero min", planName: "Plan", min: 0, daily: 1, duration: 1, wantErr: "Minimum investment must be positive"},
		{name: "negative daily", planName: "Plan", min: 100, daily: -1, duration: 1, wantErr: "Daily return must not be negative"},
		{name: "zero duration", planName: "Plan", min: 100, daily: 1, duration: 0, wantErr: "Duration must be at least 1 day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePlan(tt.planName, decimal.NewFromInt(tt.min), decimal.NewFromInt(tt.daily), tt.duration)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func Test_prizeDomain(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := NewPrizeDomain(repository.NewPrizeRepository(), repository.NewActivityLogRepository())

	wheel, err := d.GetLuckyDrawWheel(ctx, &model.GetLuckyDrawWheelRequest{})
	require.NoError(t, err)
	require.Len(t, wheel.Prizes, 8)
	require.Equal(t, testutil.Prizes[0].ID, wheel.Prizes[0].ID)

	_, err = d.CreatePrize(adminCtx, &model.CreatePrizeRequest{Name: "Car", Type: "vehicle"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid prize type"), err)

	_, err = d.CreatePrize(adminCtx, &model.CreatePrizeRequest{Name: "₹10", Type: string(entity.PrizeMoney)})
	require.Equal(t, errorx.New(errorx.BadRequest, "Money and bonus prizes need a positive amount"), err)

	created, err := d.CreatePrize(adminCtx, &model.CreatePrizeRequest{
		Name:     "Smart Watch",
		Type:     string(entity.PrizePhysical),
		Position: 9,
	})
	require.NoError(t, err)

	// The wheel shows only the first eight prizes.
	wheel, err = d.GetLuckyDrawWheel(ctx, &model.GetLuckyDrawWheelRequest{})
	require.NoError(t, err)
	require.Len(t, wheel.Prizes, 8)

	prizes, err := d.GetPrizes(adminCtx, &model.GetPrizesRequest{})
	require.NoError(t, err)
	require.Len(t, prizes.Prizes, 9)

	amount := decimal.NewFromInt(500)
	prizeType := string(entity.PrizeBonus)
	updated, err := d.UpdatePrize(adminCtx, &model.UpdatePrizeRequest{
		ID: created.Prize.ID, Type: &prizeType, Amount: &amount,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.PrizeBonus), updated.Prize.Type)
	requireDecimal(t, "500", updated.Prize.Amount)

	_, err = d.DeletePrize(adminCtx, &model.DeletePrizeRequest{ID: testutil.Prizes[0].ID})
	require.NoError(t, err)

	// The next prize moves up and the wheel is still full.
	wheel, err = d.GetLuckyDrawWheel(ctx, &model.GetLuckyDrawWheelRequest{})
	require.NoError(t, err)
	require.Len(t, wheel.Prizes, 8)
	require.Equal(t, testutil.Prizes[1].ID, wheel.Prizes[0].ID)
	require.Equal(t, created.Prize.ID, wheel.Prizes[7].ID)

	_, err = d.DeletePrize(adminCtx, &model.DeletePrizeRequest{ID: testutil.Prizes[0].ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Prize not found"), err)

	_, err = d.GetPrizes(ctx, &model.GetPrizesRequest{})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}

func Test_settingDomain_PlatformSettings(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := NewSettingDomain(repository.NewSettingRepository(), repository.NewActivityLogRepository())

	got, err := d.GetPlatformSettings(ctx, &model.GetPlatformSettingsRequest{})
	require.NoError(t, err)
	require.Equal(t, model.GetPlatformSettingsResponse(DefaultPlatformSettings()), *got)

	_, err = d.UpdatePlatformSettings(adminCtx, &model.UpdatePlatformSettingsRequest{ThemeColor: "magenta"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid theme color"), err)

	updated, err := d.UpdatePlatformSettings(adminCtx, &model.UpdatePlatformSettingsRequest{
		AppName:     " Green Wealth ",
		ThemeColor:  string(entity.ThemeBlue),
		SocialLinks: &model.SocialLinks{Telegram: "https://t.me/green"},
	})
	require.NoError(t, err)
	require.Equal(t, "Green Wealth", updated.AppName)
	require.Equal(t, string(entity.ThemeBlue), updated.ThemeColor)
	require.Equal(t, "https://t.me/green", updated.SocialLinks.Telegram)
	require.Equal(t, DefaultPlatformSettings().SocialLinks.Whatsapp, updated.SocialLinks.Whatsapp)

	// Fields left empty are kept.
	updated, err = d.UpdatePlatformSettings(adminCtx, &model.UpdatePlatformSettingsRequest{AppLogo: "https://cdn/logo.png"})
	require.NoError(t, err)
	require.Equal(t, "Green Wealth", updated.AppName)
	require.Equal(t, "https://cdn/logo.png", updated.AppLogo)
	require.Equal(t, "https://t.me/green", updated.SocialLinks.Telegram)

	got, err = d.GetPlatformSettings(ctx, &model.GetPlatformSettingsRequest{})
	require.NoError(t, err)
	require.Equal(t, model.GetPlatformSettingsResponse(*updated), *got)

	_, err = d.UpdatePlatformSettings(testutil.MockContextWithUserID(ctx, testutil.User1.ID),
		&model.UpdatePlatformSettingsRequest{AppName: "Hacked"})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}

func Test_settingDomain_PaymentSettings(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := NewSettingDomain(repository.NewSettingRepository(), repository.NewActivityLogRepository())

	got, err := d.GetPaymentSettings(adminCtx, &model.GetPaymentSettingsRequest{})
	require.NoError(t, err)
	require.Len(t, got.PaymentMethods, 1)
	require.Equal(t, []int{500, 1000, 2000, 5000}, got.QuickAmounts)

	_, err = d.UpdatePaymentSettings(adminCtx, &model.UpdatePaymentSettingsRequest{
		PaymentMethods: []model.PaymentMethod{
			{Name: "UPI 1", UPIID: "a@bank", IsActive: true},
			{Name: "UPI 2", UPIID: "b@bank", IsActive: true},
		},
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Only one payment method can be active"), err)

	_, err = d.UpdatePaymentSettings(adminCtx, &model.UpdatePaymentSettingsRequest{
		PaymentMethods: []model.PaymentMethod{{Name: "UPI 1"}},
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Payment method needs a name and an UPI id"), err)

	_, err = d.UpdatePaymentSettings(adminCtx, &model.UpdatePaymentSettingsRequest{QuickAmounts: []int{100, 0}})
	require.Equal(t, errorx.New(errorx.BadRequest, "Quick amounts must be positive"), err)

	// Rejected updates keep the old methods.
	got, err = d.GetPaymentSettings(adminCtx, &model.GetPaymentSettingsRequest{})
	require.NoError(t, err)
	require.Len(t, got.PaymentMethods, 1)
	require.Equal(t, testutil.PaymentMethod1.ID, got.PaymentMethods[0].ID)

	_, err = d.UpdatePaymentSettings(adminCtx, &model.UpdatePaymentSettingsRequest{
		PaymentMethods: []model.PaymentMethod{
			{Name: "Old UPI", UPIID: "old@bank"},
			{Name: "New UPI", UPIID: "new@bank", IsActive: true},
		},
		QuickAmounts: []int{300, 600},
	})
	require.NoError(t, err)

	got, err = d.GetPaymentSettings(adminCtx, &model.GetPaymentSettingsRequest{})
	require.NoError(t, err)
	require.Len(t, got.PaymentMethods, 2)
	require.Equal(t, "Old UPI", got.PaymentMethods[0].Name)
	require.True(t, got.PaymentMethods[1].IsActive)
	require.Equal(t, []int{300, 600}, got.QuickAmounts)

	ledger := newTestLedgerDomain(nil)
	deposit, err := ledger.InitiateDeposit(
		testutil.MockContextWithUserID(ctx, testutil.User1.ID),
		&model.InitiateDepositRequest{Amount: decimal.NewFromInt(300)},
	)
	require.NoError(t, err)
	require.Equal(t, "new@bank", deposit.UPIID)

	platform, err := d.GetPlatformSettings(ctx, &model.GetPlatformSettingsRequest{})
	require.NoError(t, err)
	require.Equal(t, []int{300, 600}, platform.PaymentQuickAmounts)
}
