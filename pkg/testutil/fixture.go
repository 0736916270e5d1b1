package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/crypto"
)

const (
	UserPassword  = "password123"
	FundPassword  = "654321"
	AdminPassword = "password"
)

var (
	User1 = &entity.User{
		Base:             entity.Base{ID: "user1"},
		Phone:            "9876543210",
		Name:             "Rahul Sharma",
		Email:            "rahul@example.com",
		Language:         "en",
		Balance:          decimal.RequireFromString("15000.75"),
		TotalReturns:     decimal.NewFromInt(1250),
		RechargeAmount:   decimal.NewFromInt(20000),
		IsActive:         true,
		LuckyDrawChances: 3,
	}

	// User2 has no money and no fund password.
	User2 = &entity.User{
		Base:     entity.Base{ID: "user2"},
		Phone:    "9123456780",
		Name:     "Priya Patel",
		Language: "en",
		IsActive: true,
	}

	BlockedUser = &entity.User{
		Base:     entity.Base{ID: "user3"},
		Phone:    "9000000003",
		Name:     "Blocked User",
		Language: "en",
		IsActive: false,
	}

	Plan1 = &entity.Plan{
		Base:          entity.Base{ID: "P001"},
		Name:          "Green Energy Fund",
		MinInvestment: decimal.NewFromInt(10000),
		DailyReturn:   decimal.NewFromInt(50),
		Duration:      300,
		Category:      "STABLE",
	}

	Plan2 = &entity.Plan{
		Base:          entity.Base{ID: "P002"},
		Name:          "Eco-Friendly Tech",
		MinInvestment: decimal.NewFromInt(5000),
		DailyReturn:   decimal.NewFromInt(30),
		Duration:      180,
		Category:      "STABLE",
	}

	Prizes = []*entity.Prize{
		{Base: entity.Base{ID: "prize-1"}, Name: "₹50", Type: entity.PrizeMoney, Amount: decimal.NewFromInt(50), Position: 1},
		{Base: entity.Base{ID: "prize-2"}, Name: "Thank You", Type: entity.PrizeNothing, Position: 2},
		{Base: entity.Base{ID: "prize-3"}, Name: "iPhone 16", Type: entity.PrizePhysical, Position: 3},
		{Base: entity.Base{ID: "prize-4"}, Name: "₹100 Bonus", Type: entity.PrizeBonus, Amount: decimal.NewFromInt(100), Position: 4},
		{Base: entity.Base{ID: "prize-5"}, Name: "₹1000", Type: entity.PrizeMoney, Amount: decimal.NewFromInt(1000), Position: 5},
		{Base: entity.Base{ID: "prize-6"}, Name: "Thank You", Type: entity.PrizeNothing, Position: 6},
		{Base: entity.Base{ID: "prize-7"}, Name: "Air Conditioner", Type: entity.PrizePhysical, Position: 7},
		{Base: entity.Base{ID: "prize-8"}, Name: "Random Bonus", Type: entity.PrizeBonus, Amount: decimal.NewFromInt(200), Position: 8},
	}

	PaymentMethod1 = &entity.PaymentMethod{
		Base:     entity.Base{ID: "pm-1"},
		Name:     "Default UPI",
		UPIID:    "payment@bank",
		IsActive: true,
	}

	Admin1 = &entity.Admin{
		Base:     entity.Base{ID: "admin1"},
		Username: "admin",
	}
)

var (
	hashOnce  sync.Once
	userHash  string
	fundHash  string
	adminHash string
)

func hashPasswords() {
	hashOnce.Do(func() {
		var err error
		if userHash, err = crypto.HashPassword(UserPassword); err != nil {
			panic(err)
		}
		if fundHash, err = crypto.HashPassword(FundPassword); err != nil {
			panic(err)
		}
		if adminHash, err = crypto.HashPassword(AdminPassword); err != nil {
			panic(err)
		}
	})
}

func CreateFixtureDb(ctx context.Context) {
	hashPasswords()
	InsertUsers(ctx)
	InsertPlans(ctx)
	InsertPrizes(ctx)
	InsertPaymentMethods(ctx)
	InsertAdmins(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	user1 := *User1
	user1.Password = userHash
	user1.FundPassword = fundHash
	if err := userRepo.Create(ctx, &user1); err != nil {
		panic(err)
	}

	for _, u := range []*entity.User{User2, BlockedUser} {
		user := *u
		user.Password = userHash
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertPlans(ctx context.Context) {
	planRepo := repository.NewPlanRepository()
	for _, p := range []*entity.Plan{Plan1, Plan2} {
		plan := *p
		if err := planRepo.Create(ctx, &plan); err != nil {
			panic(err)
		}
	}
}

func InsertPrizes(ctx context.Context) {
	prizeRepo := repository.NewPrizeRepository()
	for _, p := range Prizes {
		prize := *p
		if err := prizeRepo.Create(ctx, &prize); err != nil {
			panic(err)
		}
	}
}

func InsertPaymentMethods(ctx context.Context) {
	method := *PaymentMethod1
	err := repository.NewSettingRepository().ReplacePaymentMethods(ctx, []entity.PaymentMethod{method})
	if err != nil {
		panic(err)
	}
}

func InsertAdmins(ctx context.Context) {
	admin := *Admin1
	admin.Password = adminHash
	if err := repository.NewAdminRepository().Upsert(ctx, &admin); err != nil {
		panic(err)
	}
}
