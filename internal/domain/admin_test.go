package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/testutil"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

func newTestAdminDomain(publisher pubsub.Publisher) *adminDomain {
	if publisher == nil {
		publisher = &testutil.MockPublisher{}
	}

	return NewAdminDomain(
		repository.NewUserRepository(),
		repository.NewAdminRepository(),
		repository.NewTransactionRepository(),
		repository.NewInvestmentRepository(),
		repository.NewActivityLogRepository(),
		publisher,
	)
}

func Test_adminDomain_PermissionDenied(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestAdminDomain(nil)

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	wantErr := errorx.New(errorx.PermissionDenied, "Permission denied")

	_, err := d.GetDashboard(userCtx, &model.GetDashboardRequest{})
	require.Equal(t, wantErr, err)

	_, err = d.GetUsers(ctx, &model.GetUsersRequest{})
	require.Equal(t, wantErr, err)

	_, err = d.LoginAsUser(userCtx, &model.LoginAsUserRequest{ID: testutil.User2.ID})
	require.Equal(t, wantErr, err)

	_, err = d.DeleteUser(userCtx, &model.DeleteUserRequest{ID: testutil.User2.ID})
	require.Equal(t, wantErr, err)
}

func Test_adminDomain_GetDashboard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	_, err := newTestLedgerDomain(nil).Invest(
		testutil.MockContextWithUserID(ctx, testutil.User1.ID),
		&model.InvestRequest{PlanID: testutil.Plan1.ID, Quantity: 1},
	)
	require.NoError(t, err)

	d := newTestAdminDomain(nil)
	resp, err := d.GetDashboard(testutil.MockContextWithAdmin(ctx), &model.GetDashboardRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.TotalUsers)
	require.Equal(t, int64(2), resp.ActiveUsers)
	requireDecimal(t, "10000", resp.TotalInvestments)
	requireDecimal(t, "5000.75", resp.PlatformBalance)
}

func Test_adminDomain_GetUsers_DeleteUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := newTestAdminDomain(nil)

	resp, err := d.GetUsers(adminCtx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Total)
	require.Len(t, resp.Users, 3)

	resp, err = d.GetUsers(adminCtx, &model.GetUsersRequest{Q: "priya"})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	require.Equal(t, testutil.User2.ID, resp.Users[0].ID)

	resp, err = d.GetUsers(adminCtx, &model.GetUsersRequest{Q: "98765"})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	require.Equal(t, testutil.User1.ID, resp.Users[0].ID)

	_, err = d.DeleteUser(adminCtx, &model.DeleteUserRequest{ID: testutil.User2.ID})
	require.NoError(t, err)

	_, err = d.DeleteUser(adminCtx, &model.DeleteUserRequest{ID: testutil.User2.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "User not found"), err)

	resp, err = d.GetUsers(adminCtx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Total)
	for _, u := range resp.Users {
		require.NotEqual(t, testutil.User2.ID, u.ID)
	}

	// A deleted user cannot log in anymore.
	auth := newTestAuthDomain(nil, &testutil.MockPublisher{})
	_, err = auth.Login(ctx, &model.LoginRequest{Identifier: testutil.User2.Phone, Password: testutil.UserPassword})
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))
}

func Test_adminDomain_UpdateUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)

	var events []model.LedgerEvent
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			var event model.LedgerEvent
			if err := json.Unmarshal(pack.Msg, &event); err != nil {
				return err
			}
			events = append(events, event)
			return nil
		},
	}
	d := newTestAdminDomain(publisher)

	name := "Rahul Verma"
	balance := decimal.RequireFromString("20000.25")
	chances := 7
	active := false
	resp, err := d.UpdateUser(adminCtx, &model.UpdateUserRequest{
		ID:               testutil.User1.ID,
		Name:             &name,
		Balance:          &balance,
		LuckyDrawChances: &chances,
		IsActive:         &active,
	})
	require.NoError(t, err)
	require.Equal(t, name, resp.User.Name)
	require.Equal(t, 7, resp.User.LuckyDrawChances)
	require.False(t, resp.User.IsActive)
	requireDecimal(t, "20000.25", resp.User.Balance)

	txs, err := repository.NewTransactionRepository().GetByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entity.TransactionSystem, txs[0].Type)
	requireDecimal(t, "4999.5", txs[0].Amount)

	require.Len(t, events, 1)
	require.Equal(t, string(entity.TransactionSystem), events[0].Type)

	// Same balance again does not add another adjustment.
	_, err = d.UpdateUser(adminCtx, &model.UpdateUserRequest{ID: testutil.User1.ID, Balance: &balance})
	require.NoError(t, err)
	txs, err = repository.NewTransactionRepository().GetByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func Test_adminDomain_UpdateUser_BalanceMoved(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)

	// Credit the user between the admin read and the balance write, the way
	// a concurrent deposit would without a row lock.
	credited := false
	err := xcontext.DB(ctx).Callback().Query().After("gorm:query").Register("test:credit", func(db *gorm.DB) {
		tx, ok := db.Statement.ConnPool.(*sql.Tx)
		if !ok || credited || db.Statement.Table != "users" {
			return
		}
		credited = true
		_, err := tx.Exec("UPDATE users SET balance = balance + 100 WHERE id = ?", testutil.User1.ID)
		require.NoError(t, err)
	})
	require.NoError(t, err)

	published := 0
	d := newTestAdminDomain(&testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			published++
			return nil
		},
	})

	balance := decimal.NewFromInt(500)
	_, err = d.UpdateUser(adminCtx, &model.UpdateUserRequest{ID: testutil.User1.ID, Balance: &balance})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.Unavailable, "Balance changed, please retry").Error(), err.Error())
	require.True(t, credited)
	require.Zero(t, published)

	requireDecimal(t, "15000.75", getUser(t, ctx, testutil.User1.ID).Balance)
	txs, err := repository.NewTransactionRepository().GetByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func Test_adminDomain_UpdateUser_Invalid(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := newTestAdminDomain(nil)

	empty := ""
	badEmail := "foo"
	badLanguage := "de"
	takenPhone := testutil.User2.Phone
	negative := -1
	badBalance := decimal.RequireFromString("-10")

	tests := []struct {
		name    string
		req     *model.UpdateUserRequest
		wantErr error
	}{
		{
			name:    "empty name",
			req:     &model.UpdateUserRequest{ID: testutil.User1.ID, Name: &empty},
			wantErr: errorx.New(errorx.BadRequest, "Name is required"),
		},
		{
			name:    "invalid email",
			req:     &model.UpdateUserRequest{ID: testutil.User1.ID, Email: &badEmail},
			wantErr: errorx.New(errorx.BadRequest, "Invalid email"),
		},
		{
			name:    "unsupported language",
			req:     &model.UpdateUserRequest{ID: testutil.User1.ID, Language: &badLanguage},
			wantErr: errorx.New(errorx.BadRequest, "Unsupported language"),
		},
		{
			name:    "negative chances",
			req:     &model.UpdateUserRequest{ID: testutil.User1.ID, LuckyDrawChances: &negative},
			wantErr: errorx.New(errorx.BadRequest, "Lucky draw chances must not be negative"),
		},
		{
			name:    "negative balance",
			req:     &model.UpdateUserRequest{ID: testutil.User1.ID, Balance: &badBalance},
			wantErr: errorx.New(errorx.BadRequest, "Invalid balance"),
		},
		{
			name:    "phone taken",
			req:     &model.UpdateUserRequest{ID: testutil.User1.ID, Phone: &takenPhone},
			wantErr: errorx.New(errorx.AlreadyExists, "Phone number already registered"),
		},
		{
			name:    "unknown user",
			req:     &model.UpdateUserRequest{ID: "unknown"},
			wantErr: errorx.New(errorx.NotFound, "User not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.UpdateUser(adminCtx, tt.req)
			require.Equal(t, tt.wantErr, err)
		})
	}

	require.Equal(t, testutil.User1.Phone, getUser(t, ctx, testutil.User1.ID).Phone)
}

func Test_adminDomain_LoginAsUser(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestAdminDomain(nil)

	resp, err := d.LoginAsUser(testutil.MockContextWithAdmin(ctx), &model.LoginAsUserRequest{ID: testutil.User2.ID})
	require.NoError(t, err)

	var token model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &token))
	require.Equal(t, testutil.User2.ID, token.ID)
	require.Equal(t, string(entity.UserRole), token.Role)

	_, err = d.LoginAsUser(testutil.MockContextWithAdmin(ctx), &model.LoginAsUserRequest{ID: "unknown"})
	require.Equal(t, errorx.New(errorx.NotFound, "User not found"), err)
}

func Test_adminDomain_ChangePassword(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	adminCtx := testutil.MockContextWithAdmin(ctx)
	d := newTestAdminDomain(nil)

	_, err := d.ChangePassword(adminCtx, &model.ChangeAdminPasswordRequest{OldPassword: "wrong", NewPassword: "newsecret"})
	require.Equal(t, errorx.New(errorx.IncorrectPassword, "Incorrect password"), err)

	_, err = d.ChangePassword(adminCtx, &model.ChangeAdminPasswordRequest{
		OldPassword: testutil.AdminPassword,
		NewPassword: "newsecret",
	})
	require.NoError(t, err)

	auth := newTestAuthDomain(nil, &testutil.MockPublisher{})
	_, err = auth.AdminLogin(ctx, &model.AdminLoginRequest{Username: testutil.Admin1.Username, Password: "newsecret"})
	require.NoError(t, err)

	logs, err := d.GetActivityLog(adminCtx, &model.GetActivityLogRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(len(logs.Logs)), logs.Total)
	require.NotZero(t, logs.Total)
}
