package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/pkg/storage"
)

type Configs struct {
	Env string

	Database         DatabaseConfigs
	ApiServer        APIServerConfigs
	PrometheusServer ServerConfigs
	Auth             AuthConfigs
	Storage          storage.S3Configs
	File             FileConfigs
	Redis            RedisConfigs
	Kafka            KafkaConfigs
	Log              LogConfigs
	Ledger           LedgerConfigs
	OTP              OTPConfigs
	Admin            AdminConfigs
}

type DatabaseConfigs struct {
	// Driver is either mysql or sqlite.
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Database
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	AllowedOrigins []string
	MaxLimit       int
	DefaultLimit   int
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
	AdminToken  TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type FileConfigs struct {
	MaxSize    int64
	MaxImages  int
	ImageSizes []int
}

type RedisConfigs struct {
	Addr     string
	Password string
}

type KafkaConfigs struct {
	Addr    string
	GroupID string
}

type LogConfigs struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type LedgerConfigs struct {
	MinDeposit               decimal.Decimal
	MinWithdrawal            decimal.Decimal
	WithdrawalTaxRate        decimal.Decimal
	CheckInReward            decimal.Decimal
	WheelSlots               int
	RegisterLuckyDrawChances int
	DepositExpiration        time.Duration
	Currency                 string
}

type OTPConfigs struct {
	Length      int
	Expiration  time.Duration
	Cooldown    time.Duration
	MaxAttempts int
}

type AdminConfigs struct {
	Username string
	Password string
}

// Default returns the configs used when neither a config file nor flags
// override a value.
func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			Database: "wealthfund",
			User:     "mysql",
			LogLevel: "error",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Port: "8080"},
			AllowedOrigins: []string{"*"},
			MaxLimit:       50,
			DefaultLimit:   20,
		},
		PrometheusServer: ServerConfigs{Port: "9090"},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{Name: "access_token", Expiration: 7 * 24 * time.Hour},
			AdminToken:  TokenConfigs{Name: "admin_token", Expiration: 12 * time.Hour},
		},
		File: FileConfigs{
			MaxSize:    2 * 1024 * 1024,
			MaxImages:  2,
			ImageSizes: []int{512, 128, 32},
		},
		Kafka: KafkaConfigs{GroupID: "wealthfund"},
		Log:   LogConfigs{Level: "info", MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30},
		Ledger: LedgerConfigs{
			MinDeposit:               decimal.NewFromInt(200),
			MinWithdrawal:            decimal.NewFromInt(300),
			WithdrawalTaxRate:        decimal.RequireFromString("0.08"),
			CheckInReward:            decimal.NewFromInt(10),
			WheelSlots:               8,
			RegisterLuckyDrawChances: 1,
			DepositExpiration:        24 * time.Hour,
			Currency:                 "₹",
		},
		OTP: OTPConfigs{
			Length:      6,
			Expiration:  10 * time.Minute,
			Cooldown:    time.Minute,
			MaxAttempts: 5,
		},
		Admin: AdminConfigs{Username: "admin", Password: "password"},
	}
}

// Validate rejects configs which would break requests at runtime instead of at
// startup.
func (c Configs) Validate() error {
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("token secret is required")
	}

	if c.Ledger.WheelSlots < 1 {
		return fmt.Errorf("ledger wheel slots must be at least 1, got %d", c.Ledger.WheelSlots)
	}

	if c.Ledger.WithdrawalTaxRate.IsNegative() || c.Ledger.WithdrawalTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("ledger withdrawal tax rate must be in [0, 1), got %s", c.Ledger.WithdrawalTaxRate)
	}

	if c.Ledger.DepositExpiration <= 0 {
		return fmt.Errorf("ledger deposit expiration must be positive")
	}

	if c.OTP.Length < 1 {
		return fmt.Errorf("otp length must be at least 1, got %d", c.OTP.Length)
	}

	if c.OTP.Expiration <= 0 {
		return fmt.Errorf("otp expiration must be positive")
	}

	if c.OTP.MaxAttempts < 1 {
		return fmt.Errorf("otp max attempts must be at least 1, got %d", c.OTP.MaxAttempts)
	}

	return nil
}
