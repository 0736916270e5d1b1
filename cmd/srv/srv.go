package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"github.com/wealthfund/backend/internal/domain"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/kafka"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/storage"
	"github.com/wealthfund/backend/pkg/ws"
	"github.com/wealthfund/backend/pkg/xcontext"
	"github.com/wealthfund/backend/pkg/xredis"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app    *cli.App
	ctx    context.Context
	nodeID int64

	redisClient xredis.Client
	publisher   pubsub.Publisher
	storage     storage.Storage
	hub         *ws.Hub

	userRepo          repository.UserRepository
	adminRepo         repository.AdminRepository
	bankAccountRepo   repository.BankAccountRepository
	loginActivityRepo repository.LoginActivityRepository
	transactionRepo   repository.TransactionRepository
	investmentRepo    repository.InvestmentRepository
	planRepo          repository.PlanRepository
	prizeRepo         repository.PrizeRepository
	checkInRepo       repository.CheckInRepository
	otpRepo           repository.OTPRepository
	commentRepo       repository.CommentRepository
	chatRepo          repository.ChatRepository
	settingRepo       repository.SettingRepository
	activityLogRepo   repository.ActivityLogRepository

	authDomain    domain.AuthDomain
	userDomain    domain.UserDomain
	ledgerDomain  domain.LedgerDomain
	planDomain    domain.PlanDomain
	prizeDomain   domain.PrizeDomain
	settingDomain domain.SettingDomain
	adminDomain   domain.AdminDomain
	commentDomain domain.CommentDomain
	chatDomain    domain.ChatDomain
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		panic(fmt.Sprintf("unsupported database driver %s", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	return db
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Error
	}
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) loadSnowFlake() {
	node, err := snowflake.NewNode(s.nodeID)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	var err error
	s.publisher, err = kafka.NewPublisher(
		"api", []string{xcontext.Configs(s.ctx).Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.adminRepo = repository.NewAdminRepository()
	s.bankAccountRepo = repository.NewBankAccountRepository()
	s.loginActivityRepo = repository.NewLoginActivityRepository()
	s.transactionRepo = repository.NewTransactionRepository()
	s.investmentRepo = repository.NewInvestmentRepository()
	s.planRepo = repository.NewPlanRepository()
	s.prizeRepo = repository.NewPrizeRepository()
	s.checkInRepo = repository.NewCheckInRepository()
	s.otpRepo = repository.NewOTPRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.chatRepo = repository.NewChatRepository()
	s.settingRepo = repository.NewSettingRepository()
	s.activityLogRepo = repository.NewActivityLogRepository()
}

func (s *srv) loadDomains() {
	s.hub = ws.NewHub()

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.adminRepo, s.loginActivityRepo, s.otpRepo,
		s.activityLogRepo, s.redisClient, s.publisher)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.bankAccountRepo, s.transactionRepo,
		s.investmentRepo, s.loginActivityRepo, s.checkInRepo, s.otpRepo, s.activityLogRepo,
		s.redisClient, s.publisher, s.storage)
	s.ledgerDomain = domain.NewLedgerDomain(s.userRepo, s.transactionRepo, s.investmentRepo,
		s.planRepo, s.prizeRepo, s.checkInRepo, s.settingRepo, s.publisher)
	s.planDomain = domain.NewPlanDomain(s.planRepo, s.activityLogRepo)
	s.prizeDomain = domain.NewPrizeDomain(s.prizeRepo, s.activityLogRepo)
	s.settingDomain = domain.NewSettingDomain(s.settingRepo, s.activityLogRepo)
	s.adminDomain = domain.NewAdminDomain(s.userRepo, s.adminRepo, s.transactionRepo,
		s.investmentRepo, s.activityLogRepo, s.publisher)
	s.commentDomain = domain.NewCommentDomain(s.commentRepo, s.userRepo, s.activityLogRepo, s.storage)
	s.chatDomain = domain.NewChatDomain(s.chatRepo, s.hub)
}
