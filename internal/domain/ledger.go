package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/crypto"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// LedgerDomain holds every operation which moves money between a user balance
// and the transaction log. Each balance change and its transaction row are
// written in the same database transaction.
type LedgerDomain interface {
	InitiateDeposit(context.Context, *model.InitiateDepositRequest) (*model.InitiateDepositResponse, error)
	ConfirmDeposit(context.Context, *model.ConfirmDepositRequest) (*model.ConfirmDepositResponse, error)
	Withdraw(context.Context, *model.WithdrawRequest) (*model.WithdrawResponse, error)
	Invest(context.Context, *model.InvestRequest) (*model.InvestResponse, error)
	CheckIn(context.Context, *model.CheckInRequest) (*model.CheckInResponse, error)
	PlayLuckyDraw(context.Context, *model.PlayLuckyDrawRequest) (*model.PlayLuckyDrawResponse, error)
}

type ledgerDomain struct {
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	investmentRepo  repository.InvestmentRepository
	planRepo        repository.PlanRepository
	prizeRepo       repository.PrizeRepository
	checkInRepo     repository.CheckInRepository
	settingRepo     repository.SettingRepository
	publisher       pubsub.Publisher
}

func NewLedgerDomain(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	investmentRepo repository.InvestmentRepository,
	planRepo repository.PlanRepository,
	prizeRepo repository.PrizeRepository,
	checkInRepo repository.CheckInRepository,
	settingRepo repository.SettingRepository,
	publisher pubsub.Publisher,
) *ledgerDomain {
	return &ledgerDomain{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		planRepo:        planRepo,
		prizeRepo:       prizeRepo,
		checkInRepo:     checkInRepo,
		settingRepo:     settingRepo,
		publisher:       publisher,
	}
}

func (d *ledgerDomain) getUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := d.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func (d *ledgerDomain) newTransaction(
	ctx context.Context,
	userID string,
	txType entity.TransactionType,
	status entity.TransactionStatus,
	amount decimal.Decimal,
	description string,
) *entity.Transaction {
	return &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		Type:          txType,
		Status:        status,
		Amount:        amount,
		Description:   description,
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errorx.New(errorx.BadRequest, "Amount must be positive")
	}

	if !amount.Equal(amount.Round(2)) {
		return errorx.New(errorx.BadRequest, "Amount must have at most 2 decimal places")
	}

	return nil
}

func (d *ledgerDomain) InitiateDeposit(
	ctx context.Context, req *model.InitiateDepositRequest,
) (*model.InitiateDepositResponse, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx).Ledger
	if req.Amount.LessThan(cfg.MinDeposit) {
		return nil, errorx.New(errorx.BadRequest, "Minimum deposit is %s", common.FormatMoney(ctx, cfg.MinDeposit))
	}

	method, err := d.settingRepo.GetActivePaymentMethod(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "No payment method is available")
		}

		xcontext.Logger(ctx).Errorf("Cannot get active payment method: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.getUser(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	tx := d.newTransaction(ctx, user.ID, entity.TransactionDeposit, entity.TransactionPending,
		req.Amount, "Pending Deposit")
	if err := d.transactionRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create deposit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitiateDepositResponse{
		TransactionID:     strconv.FormatInt(tx.ID, 10),
		Amount:            tx.Amount,
		PaymentMethodName: method.Name,
		UPIID:             method.UPIID,
		QRCode:            method.QRCode,
	}, nil
}

// ConfirmDeposit credits a pending deposit exactly once. Confirming a deposit
// which is already completed succeeds without crediting again.
func (d *ledgerDomain) ConfirmDeposit(
	ctx context.Context, req *model.ConfirmDepositRequest,
) (*model.ConfirmDepositResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	id, err := strconv.ParseInt(req.TransactionID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.NotFound, "Transaction not found")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	tx, err := d.transactionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Transaction not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get transaction: %v", err)
		return nil, errorx.Unknown
	}

	if tx.UserID != userID || tx.Type != entity.TransactionDeposit {
		return nil, errorx.New(errorx.NotFound, "Transaction not found")
	}

	expiredAt := tx.CreatedAt.Add(xcontext.Configs(ctx).Ledger.DepositExpiration)
	if tx.Status == entity.TransactionPending && time.Now().After(expiredAt) {
		return d.expireDeposit(ctx, tx.ID)
	}

	description := "Deposited " + common.FormatMoney(ctx, tx.Amount)
	err = d.transactionRepo.UpdateStatus(ctx, tx.ID,
		entity.TransactionPending, entity.TransactionCompleted, description)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot complete deposit: %v", err)
			return nil, errorx.Unknown
		}

		// The deposit left the pending status before this call.
		return d.confirmedDeposit(ctx, tx.ID)
	}

	if err := d.userRepo.IncreaseBalance(ctx, userID, tx.Amount, "recharge_amount"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit deposit: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit deposit confirmation: %v", err)
		return nil, errorx.Unknown
	}

	tx.Status = entity.TransactionCompleted
	tx.Description = description
	publishLedgerEvent(ctx, d.publisher, user, tx)

	return &model.ConfirmDepositResponse{
		Transaction: model.ConvertTransaction(tx),
		Balance:     user.Balance,
	}, nil
}

// expireDeposit moves a deposit which outlived Ledger.DepositExpiration to
// expired without waiting for the cron job.
func (d *ledgerDomain) expireDeposit(ctx context.Context, id int64) (*model.ConfirmDepositResponse, error) {
	err := d.transactionRepo.UpdateStatus(ctx, id,
		entity.TransactionPending, entity.TransactionExpired, common.ExpiredDepositDescription)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d.confirmedDeposit(ctx, id)
		}

		xcontext.Logger(ctx).Errorf("Cannot expire deposit: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit deposit expiration: %v", err)
		return nil, errorx.Unknown
	}

	return nil, errorx.New(errorx.Unavailable, "Deposit has expired")
}

func (d *ledgerDomain) confirmedDeposit(ctx context.Context, id int64) (*model.ConfirmDepositResponse, error) {
	tx, err := d.transactionRepo.GetByID(ctx, id)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transaction: %v", err)
		return nil, errorx.Unknown
	}

	if tx.Status != entity.TransactionCompleted {
		return nil, errorx.New(errorx.Unavailable, "Deposit has expired")
	}

	user, err := d.getUser(ctx, tx.UserID)
	if err != nil {
		return nil, err
	}

	return &model.ConfirmDepositResponse{
		Transaction:      model.ConvertTransaction(tx),
		Balance:          user.Balance,
		AlreadyConfirmed: true,
	}, nil
}

// Withdraw deducts the full amount. The tax is informational, it is recorded
// on the transaction and reported back but never charged on top.
func (d *ledgerDomain) Withdraw(ctx context.Context, req *model.WithdrawRequest) (*model.WithdrawResponse, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx).Ledger
	if req.Amount.LessThan(cfg.MinWithdrawal) {
		return nil, errorx.New(errorx.BadRequest, "Minimum withdrawal is %s", common.FormatMoney(ctx, cfg.MinWithdrawal))
	}

	user, err := d.getUser(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	if user.FundPassword == "" {
		return nil, errorx.New(errorx.BadRequest, "Please set a fund password first")
	}

	if !crypto.CheckPassword(user.FundPassword, req.FundPassword) {
		return nil, errorx.New(errorx.IncorrectPassword, "Incorrect fund password")
	}

	if user.Balance.LessThan(req.Amount) {
		return nil, errorx.New(errorx.InsufficientBalance, "Insufficient balance")
	}

	tax := req.Amount.Mul(cfg.WithdrawalTaxRate).Round(2)
	description := fmt.Sprintf("Withdrawal of %s (tax: %s)",
		common.FormatMoney(ctx, req.Amount), common.FormatMoney(ctx, tax))
	tx := d.newTransaction(ctx, user.ID, entity.TransactionWithdrawal, entity.TransactionCompleted,
		req.Amount.Neg(), description)
	tx.Tax = tax

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.DecreaseBalance(ctx, user.ID, req.Amount, "withdrawals"); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientBalance, "Insufficient balance")
		}

		xcontext.Logger(ctx).Errorf("Cannot debit withdrawal: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.transactionRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create withdrawal transaction: %v", err)
		return nil, errorx.Unknown
	}

	user, err = d.getUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit withdrawal: %v", err)
		return nil, errorx.Unknown
	}
	publishLedgerEvent(ctx, d.publisher, user, tx)

	return &model.WithdrawResponse{
		Transaction: model.ConvertTransaction(tx),
		Tax:         tax,
		NetAmount:   req.Amount.Sub(tax),
		Balance:     user.Balance,
	}, nil
}

func (d *ledgerDomain) Invest(ctx context.Context, req *model.InvestRequest) (*model.InvestResponse, error) {
	if req.Quantity < 1 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be at least 1")
	}

	plan, err := d.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Plan not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get plan: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	quantity := decimal.NewFromInt(int64(req.Quantity))
	cost := plan.MinInvestment.Mul(quantity)
	investment := &entity.Investment{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         userID,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		Category:       plan.Category,
		InvestedAmount: cost,
		TotalRevenue:   plan.DailyReturn.Mul(decimal.NewFromInt(int64(plan.Duration))).Mul(quantity),
		DailyEarnings:  plan.DailyReturn.Mul(quantity),
		RevenueDays:    plan.Duration,
		Quantity:       req.Quantity,
		StartDate:      time.Now(),
	}
	tx := d.newTransaction(ctx, userID, entity.TransactionInvestment, entity.TransactionCompleted,
		cost.Neg(), fmt.Sprintf("Invested in %s (x%d)", plan.Name, req.Quantity))

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.DecreaseBalance(ctx, userID, cost); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientBalance, "Insufficient balance")
		}

		xcontext.Logger(ctx).Errorf("Cannot debit investment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.investmentRepo.Create(ctx, investment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create investment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.transactionRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create investment transaction: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit investment: %v", err)
		return nil, errorx.Unknown
	}
	publishLedgerEvent(ctx, d.publisher, user, tx)

	return &model.InvestResponse{
		Investment: model.ConvertInvestment(investment),
		Balance:    user.Balance,
	}, nil
}

func (d *ledgerDomain) CheckIn(ctx context.Context, req *model.CheckInRequest) (*model.CheckInResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	reward := xcontext.Configs(ctx).Ledger.CheckInReward
	day := time.Now().UTC().Format(model.DefaultDateLayout)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	exists, err := d.checkInRepo.Exists(ctx, userID, day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check check-in: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Already checked in today")
	}

	if err := d.checkInRepo.Create(ctx, &entity.CheckIn{UserID: userID, Day: day, Reward: reward}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Already checked in today")
		}

		xcontext.Logger(ctx).Errorf("Cannot create check-in: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.IncreaseBalance(ctx, userID, reward, "total_returns"); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit check-in reward: %v", err)
		return nil, errorx.Unknown
	}

	tx := d.newTransaction(ctx, userID, entity.TransactionReward, entity.TransactionCompleted,
		reward, "Daily Check-in Reward")
	if err := d.transactionRepo.Create(ctx, tx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reward transaction: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit check-in: %v", err)
		return nil, errorx.Unknown
	}
	publishLedgerEvent(ctx, d.publisher, user, tx)

	return &model.CheckInResponse{Day: day, Reward: reward, Balance: user.Balance}, nil
}

// PlayLuckyDraw spends one chance and picks a slot of the wheel uniformly.
// Only money and bonus prizes touch the balance.
func (d *ledgerDomain) PlayLuckyDraw(
	ctx context.Context, req *model.PlayLuckyDrawRequest,
) (*model.PlayLuckyDrawResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	wheel, err := loadWheel(ctx, d.prizeRepo)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.DecreaseLuckyDrawChances(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NoChancesLeft, "No lucky draw chances left")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease lucky draw chances: %v", err)
		return nil, errorx.Unknown
	}

	slot := crypto.RandIntn(len(wheel))
	prize := wheel[slot]

	var tx *entity.Transaction
	if isCashPrize(&prize) {
		if err := d.userRepo.IncreaseBalance(ctx, userID, prize.Amount, "total_returns"); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot credit prize: %v", err)
			return nil, errorx.Unknown
		}

		tx = d.newTransaction(ctx, userID, entity.TransactionPrize, entity.TransactionCompleted,
			prize.Amount, "Lucky Draw: "+prize.Name)
		if err := d.transactionRepo.Create(ctx, tx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create prize transaction: %v", err)
			return nil, errorx.Unknown
		}
	}

	user, err := d.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit lucky draw: %v", err)
		return nil, errorx.Unknown
	}
	if tx != nil {
		publishLedgerEvent(ctx, d.publisher, user, tx)
	}

	return &model.PlayLuckyDrawResponse{
		Prize:            model.ConvertPrize(&prize),
		SlotIndex:        slot,
		Balance:          user.Balance,
		LuckyDrawChances: user.LuckyDrawChances,
	}, nil
}

func isCashPrize(prize *entity.Prize) bool {
	return (prize.Type == entity.PrizeMoney || prize.Type == entity.PrizeBonus) && prize.Amount.IsPositive()
}
