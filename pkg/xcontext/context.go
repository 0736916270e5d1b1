package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wealthfund/backend/config"
	"github.com/wealthfund/backend/pkg/authenticator"
	"github.com/wealthfund/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey        struct{}
	loggerKey         struct{}
	dbKey             struct{}
	dbTransactionKey  struct{}
	tokenEngineKey    struct{}
	snowflakeKey      struct{}
	httpRequestKey    struct{}
	responseWriterKey struct{}
	requestUserIDKey  struct{}
	requestRoleKey    struct{}
	responseKey       struct{}
	errorKey          struct{}
	startTimeKey      struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, _ := ctx.Value(configsKey{}).(config.Configs)
	return cfg
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	return ctx.Value(snowflakeKey{}).(*snowflake.Node)
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return req
}

func WithResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseWriterKey{}, w)
}

func ResponseWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responseWriterKey{}).(http.ResponseWriter)
	return w
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}

func WithRequestRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, requestRoleKey{}, role)
}

func RequestRole(ctx context.Context) string {
	role, _ := ctx.Value(requestRoleKey{}).(string)
	return role
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, _ := ctx.Value(startTimeKey{}).(time.Time)
	return t
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction if the context is inside one, otherwise
// it returns the root database.
func DB(ctx context.Context) *gorm.DB {
	if tx := dbTransaction(ctx); tx != nil && !tx.done {
		return tx.db
	}

	return ctx.Value(dbKey{}).(*gorm.DB).WithContext(ctx)
}

type transaction struct {
	db     *gorm.DB
	nested bool
	done   bool
}

func dbTransaction(ctx context.Context) *transaction {
	tx, _ := ctx.Value(dbTransactionKey{}).(*transaction)
	return tx
}

// WithDBTransaction begins a database transaction and binds it to the returned
// context. If the context is already inside a transaction, the returned context
// joins it and only the outermost owner can commit or rollback.
func WithDBTransaction(ctx context.Context) context.Context {
	if tx := dbTransaction(ctx); tx != nil && !tx.done {
		return context.WithValue(ctx, dbTransactionKey{}, &transaction{db: tx.db, nested: true})
	}

	return context.WithValue(ctx, dbTransactionKey{}, &transaction{db: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the transaction owned by the context. A
// context that joined an outer transaction, or has no transaction, commits
// nothing and returns nil.
func WithCommitDBTransaction(ctx context.Context) error {
	tx := dbTransaction(ctx)
	if tx == nil || tx.done || tx.nested {
		return nil
	}

	tx.done = true
	return tx.db.Commit().Error
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	tx := dbTransaction(ctx)
	if tx == nil || tx.done || tx.nested {
		return ctx
	}

	tx.db.Rollback()
	tx.done = true
	return ctx
}
