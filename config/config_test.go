package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestConfigs_Validate(t *testing.T) {
	valid := Default()
	valid.Auth.TokenSecret = "secret"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		modify  func(*Configs)
		wantErr string
	}{
		{
			name:    "no token secret",
			modify:  func(c *Configs) { c.Auth.TokenSecret = "" },
			wantErr: "token secret is required",
		},
		{
			name:    "empty wheel",
			modify:  func(c *Configs) { c.Ledger.WheelSlots = 0 },
			wantErr: "ledger wheel slots must be at least 1, got 0",
		},
		{
			name:    "negative wheel",
			modify:  func(c *Configs) { c.Ledger.WheelSlots = -3 },
			wantErr: "ledger wheel slots must be at least 1, got -3",
		},
		{
			name:    "full tax",
			modify:  func(c *Configs) { c.Ledger.WithdrawalTaxRate = decimal.NewFromInt(1) },
			wantErr: "ledger withdrawal tax rate must be in [0, 1), got 1",
		},
		{
			name:    "no deposit expiration",
			modify:  func(c *Configs) { c.Ledger.DepositExpiration = 0 },
			wantErr: "ledger deposit expiration must be positive",
		},
		{
			name:    "empty otp",
			modify:  func(c *Configs) { c.OTP.Length = 0 },
			wantErr: "otp length must be at least 1, got 0",
		},
		{
			name:    "no otp attempts",
			modify:  func(c *Configs) { c.OTP.MaxAttempts = 0 },
			wantErr: "otp max attempts must be at least 1, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			require.EqualError(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestConfigs_ExampleFile(t *testing.T) {
	cfg := Default()
	_, err := toml.DecodeFile("config.example.toml", &cfg)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 8, cfg.Ledger.WheelSlots)
	require.Equal(t, 5, cfg.OTP.MaxAttempts)
	require.True(t, decimal.RequireFromString("0.08").Equal(cfg.Ledger.WithdrawalTaxRate))
}
