package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/wealthfund/backend/config"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/authenticator"
	"github.com/wealthfund/backend/pkg/logger"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockContext returns a context bound to a fresh in-memory database. Every
// call gets its own database, so tests never share state.
func MockContext() context.Context {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}

	cfg := config.Default()
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.AccessToken.Expiration = time.Minute
	cfg.Auth.AdminToken.Expiration = time.Minute

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.DEBUG, nil))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// MockContextWithUserID returns ctx acting as the given user.
func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	ctx = xcontext.WithRequestUserID(ctx, userID)
	ctx = xcontext.WithRequestRole(ctx, string(entity.UserRole))
	return ctx
}

func MockContextWithAdmin(ctx context.Context) context.Context {
	ctx = xcontext.WithRequestUserID(ctx, Admin1.ID)
	ctx = xcontext.WithRequestRole(ctx, string(entity.AdminRole))
	return ctx
}
