package entity

import (
	"context"

	"github.com/wealthfund/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Admin{},
		&BankAccount{},
		&LoginActivity{},
		&Transaction{},
		&Plan{},
		&Investment{},
		&Prize{},
		&CheckIn{},
		&OTP{},
		&Comment{},
		&ChatSession{},
		&ChatMessage{},
		&Setting{},
		&PaymentMethod{},
		&ActivityLog{},
	)
}
