package domain

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/pubsub"
	"github.com/wealthfund/backend/pkg/testutil"
	"github.com/wealthfund/backend/pkg/xcontext"
	"github.com/wealthfund/backend/pkg/xredis"
)

// otpInbox collects the codes published on the otp topic.
type otpInbox struct {
	codes []string
}

func (i *otpInbox) publisher() *testutil.MockPublisher {
	return &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			if topic != model.OTPTopic {
				return nil
			}

			var event model.OTPEvent
			if err := json.Unmarshal(pack.Msg, &event); err != nil {
				return err
			}

			i.codes = append(i.codes, event.Code)
			return nil
		},
	}
}

func (i *otpInbox) last() string {
	return i.codes[len(i.codes)-1]
}

func newTestAuthDomain(redisClient xredis.Client, publisher pubsub.Publisher) *authDomain {
	if redisClient == nil {
		redisClient = &testutil.MockRedisClient{}
	}

	return NewAuthDomain(
		repository.NewUserRepository(),
		repository.NewAdminRepository(),
		repository.NewLoginActivityRepository(),
		repository.NewOTPRepository(),
		repository.NewActivityLogRepository(),
		redisClient,
		publisher,
	)
}

func Test_authDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	inbox := &otpInbox{}
	d := newTestAuthDomain(nil, inbox.publisher())

	otpResp, err := d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)
	require.Equal(t, 600, otpResp.ExpiresIn)
	require.Len(t, inbox.codes, 1)
	require.Len(t, inbox.last(), 6)

	resp, err := d.Register(ctx, &model.RegisterRequest{
		Name:     "  Amit Kumar ",
		Phone:    "9555512345",
		Password: "secret1",
		OTP:      inbox.last(),
	})
	require.NoError(t, err)
	require.Equal(t, "Amit Kumar", resp.User.Name)
	require.Equal(t, 1, resp.User.LuckyDrawChances)
	require.True(t, resp.User.Balance.IsZero())
	require.NotEmpty(t, resp.AccessToken)

	var token model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &token))
	require.Equal(t, resp.User.ID, token.ID)
	require.Equal(t, string(entity.UserRole), token.Role)

	// The code is consumed.
	_, err = d.Register(ctx, &model.RegisterRequest{
		Name:     "Someone Else",
		Phone:    "9555512345",
		Password: "secret1",
		OTP:      inbox.last(),
	})
	require.ErrorIs(t, err, errorx.New(errorx.InvalidOTP, ""))

	_, err = d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Phone number already registered"), err)
}

func Test_authDomain_Register_StaleOTP(t *testing.T) {
	ctx := testutil.MockContext()
	inbox := &otpInbox{}
	d := newTestAuthDomain(nil, inbox.publisher())

	_, err := d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)
	_, err = d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)
	require.Len(t, inbox.codes, 2)

	stale, latest := inbox.codes[0], inbox.codes[1]
	if stale != latest {
		_, err = d.Register(ctx, &model.RegisterRequest{
			Name: "Amit", Phone: "9555512345", Password: "secret1", OTP: stale,
		})
		require.Equal(t, errorx.New(errorx.InvalidOTP, "Invalid or expired code"), err)
	}

	_, err = d.Register(ctx, &model.RegisterRequest{
		Name: "Amit", Phone: "9555512345", Password: "secret1", OTP: latest,
	})
	require.NoError(t, err)
}

func Test_authDomain_Register_ExpiredOTP(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.OTP.Expiration = -time.Second
	ctx = xcontext.WithConfigs(ctx, cfg)

	inbox := &otpInbox{}
	d := newTestAuthDomain(nil, inbox.publisher())

	_, err := d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)

	_, err = d.Register(ctx, &model.RegisterRequest{
		Name: "Amit", Phone: "9555512345", Password: "secret1", OTP: inbox.last(),
	})
	require.ErrorIs(t, err, errorx.New(errorx.InvalidOTP, ""))

	exists, err := repository.NewUserRepository().ExistsByPhone(ctx, "9555512345")
	require.NoError(t, err)
	require.False(t, exists)
}

func Test_authDomain_Register_TooManyAttempts(t *testing.T) {
	ctx := testutil.MockContext()

	counters := map[string]int64{}
	redisClient := &testutil.MockRedisClient{
		IncrFunc: func(ctx context.Context, key string, ttl time.Duration) (int64, error) {
			counters[key]++
			return counters[key], nil
		},
	}
	inbox := &otpInbox{}
	d := newTestAuthDomain(redisClient, inbox.publisher())

	_, err := d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)

	wrong := "000000"
	if inbox.last() == wrong {
		wrong = "111111"
	}

	req := &model.RegisterRequest{Name: "Amit", Phone: "9555512345", Password: "secret1", OTP: wrong}
	for i := 0; i < xcontext.Configs(ctx).OTP.MaxAttempts; i++ {
		_, err = d.Register(ctx, req)
		require.Equal(t, errorx.New(errorx.InvalidOTP, "Invalid or expired code"), err)
	}

	// Even the right code is refused once the attempts are used up.
	req.OTP = inbox.last()
	_, err = d.Register(ctx, req)
	require.Equal(t, errorx.New(errorx.InvalidOTP, "Too many attempts, please request a new code"), err)

	exists, err := repository.NewUserRepository().ExistsByPhone(ctx, "9555512345")
	require.NoError(t, err)
	require.False(t, exists)

	// A fresh code gets a fresh budget.
	_, err = d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)
	req.OTP = inbox.last()
	_, err = d.Register(ctx, req)
	require.NoError(t, err)
}

func Test_authDomain_RequestOTP_Cooldown(t *testing.T) {
	ctx := testutil.MockContext()

	var keys []string
	redisClient := &testutil.MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			keys = append(keys, key)
			return len(keys) == 1, nil
		},
		TTLFunc: func(ctx context.Context, key string) (time.Duration, error) {
			return 42500 * time.Millisecond, nil
		},
	}
	d := newTestAuthDomain(redisClient, &testutil.MockPublisher{})

	_, err := d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.NoError(t, err)

	_, err = d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "9555512345"})
	require.Equal(t, errorx.New(errorx.TooManyRequests, "Please wait 43 seconds before requesting a new code"), err)
	require.Equal(t, common.RedisKeyOTPCooldown("9555512345", entity.OTPRegister), keys[0])

	_, err = d.RequestRegisterOTP(ctx, &model.RequestOTPRequest{Phone: "12ab"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid phone number"), err)
}

func Test_authDomain_Login(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestAuthDomain(nil, &testutil.MockPublisher{})

	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0")
	loginCtx := xcontext.WithHTTPRequest(ctx, req)

	tests := []struct {
		name    string
		req     *model.LoginRequest
		wantErr error
	}{
		{
			name: "login by phone",
			req:  &model.LoginRequest{Identifier: testutil.User1.Phone, Password: testutil.UserPassword},
		},
		{
			name: "login by id",
			req:  &model.LoginRequest{Identifier: testutil.User1.ID, Password: testutil.UserPassword},
		},
		{
			name:    "wrong password",
			req:     &model.LoginRequest{Identifier: testutil.User1.Phone, Password: "wrong"},
			wantErr: errorx.New(errorx.Unauthenticated, "Invalid credentials"),
		},
		{
			name:    "unknown user",
			req:     &model.LoginRequest{Identifier: "9999999999", Password: testutil.UserPassword},
			wantErr: errorx.New(errorx.Unauthenticated, "Invalid credentials"),
		},
		{
			name:    "blocked user",
			req:     &model.LoginRequest{Identifier: testutil.BlockedUser.Phone, Password: testutil.UserPassword},
			wantErr: errorx.New(errorx.AccountBlocked, "Your account has been blocked"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Login(loginCtx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testutil.User1.ID, got.User.ID)
			require.NotEmpty(t, got.AccessToken)
		})
	}

	activities, err := repository.NewLoginActivityRepository().GetByUserID(ctx, testutil.User1.ID, 10)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	require.Equal(t, "Chrome on Windows", activities[0].Device)
}

func Test_authDomain_AdminLogin(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestAuthDomain(nil, &testutil.MockPublisher{})

	resp, err := d.AdminLogin(ctx, &model.AdminLoginRequest{
		Username: testutil.Admin1.Username,
		Password: testutil.AdminPassword,
	})
	require.NoError(t, err)

	var token model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &token))
	require.Equal(t, testutil.Admin1.ID, token.ID)
	require.Equal(t, string(entity.AdminRole), token.Role)

	_, err = d.AdminLogin(ctx, &model.AdminLoginRequest{Username: testutil.Admin1.Username, Password: "x"})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Invalid admin credentials"), err)

	logs, err := repository.NewActivityLogRepository().GetList(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "Admin logged in", logs[0].Action)
}

func Test_authDomain_ResetPassword(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	inbox := &otpInbox{}
	d := newTestAuthDomain(nil, inbox.publisher())

	_, err := d.RequestPasswordResetOTP(ctx, &model.RequestOTPRequest{Phone: "9999999999"})
	require.Equal(t, errorx.New(errorx.NotFound, "Phone number not found"), err)

	_, err = d.RequestPasswordResetOTP(ctx, &model.RequestOTPRequest{Phone: testutil.User1.Phone})
	require.NoError(t, err)

	_, err = d.ResetPassword(ctx, &model.ResetPasswordRequest{
		Phone: testutil.User1.Phone, OTP: inbox.last(), NewPassword: "123",
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = d.ResetPassword(ctx, &model.ResetPasswordRequest{
		Phone: testutil.User1.Phone, OTP: inbox.last(), NewPassword: "newpassword",
	})
	require.NoError(t, err)

	_, err = d.Login(ctx, &model.LoginRequest{Identifier: testutil.User1.Phone, Password: testutil.UserPassword})
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	_, err = d.Login(ctx, &model.LoginRequest{Identifier: testutil.User1.Phone, Password: "newpassword"})
	require.NoError(t, err)
}

func Test_describeDevice(t *testing.T) {
	require.Equal(t, "Edge on Windows",
		describeDevice("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36 Edg/120.0"))
	require.Equal(t, "Safari on iPhone", describeDevice("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Safari/604.1"))
	require.Equal(t, "Unknown browser on unknown device", describeDevice(""))
}

func Test_isValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{phone: "9876543210", want: true},
		{phone: "98765432", want: true},
		{phone: "9876543", want: false},
		{phone: "9876543210123456", want: false},
		{phone: "+919876543210", want: false},
		{phone: "98765 43210", want: false},
		// Non-ASCII digits.
		{phone: "٩٨٧٦٥", want: false},
		{phone: "９８７６５", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			require.Equal(t, tt.want, isValidPhone(tt.phone))
		})
	}
}
