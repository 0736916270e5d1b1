package repository_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/testutil"
	"gorm.io/gorm"
)

type UserTestSuite struct {
	suite.Suite
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}

func (suite *UserTestSuite) TestReadWriteUser() {
	t := suite.T()
	ctx := testutil.MockContext()
	userRepo := repository.NewUserRepository()

	err := userRepo.Create(ctx, &entity.User{
		Base:  entity.Base{ID: "id1"},
		Phone: "9000000001",
		Name:  "user1",
	})
	require.NoError(t, err)

	user, err := userRepo.GetByPhone(ctx, "9000000001")
	require.NoError(t, err)
	require.Equal(t, "user1", user.Name)
	require.True(t, user.Balance.IsZero())

	err = userRepo.Create(ctx, &entity.User{Base: entity.Base{ID: "id2"}, Phone: "9000000001"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := userRepo.ExistsByPhone(ctx, "9000000002")
	require.NoError(t, err)
	require.False(t, exists)
}

func (suite *UserTestSuite) TestBalance() {
	t := suite.T()
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	userRepo := repository.NewUserRepository()

	err := userRepo.DecreaseBalance(ctx, testutil.User1.ID, decimal.RequireFromString("15000.76"))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = userRepo.DecreaseBalance(ctx, testutil.User1.ID, decimal.RequireFromString("15000.75"), "withdrawals")
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, user.Balance.IsZero())
	require.True(t, decimal.RequireFromString("15000.75").Equal(user.Withdrawals))

	err = userRepo.IncreaseBalance(ctx, testutil.User1.ID, decimal.NewFromInt(100), "recharge_amount")
	require.NoError(t, err)

	user, err = userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(100).Equal(user.Balance))
	require.True(t, decimal.NewFromInt(20100).Equal(user.RechargeAmount))

	err = userRepo.IncreaseBalance(ctx, "unknown", decimal.NewFromInt(100))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func (suite *UserTestSuite) TestSetBalance() {
	t := suite.T()
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	userRepo := repository.NewUserRepository()

	user, err := userRepo.GetByIDForUpdate(ctx, testutil.User1.ID)
	require.NoError(t, err)

	// A deposit credited after the read.
	require.NoError(t, userRepo.IncreaseBalance(ctx, user.ID, decimal.NewFromInt(100)))

	err = userRepo.SetBalance(ctx, user.ID, user.Balance, decimal.NewFromInt(500))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = userRepo.SetBalance(ctx, user.ID, decimal.RequireFromString("15100.75"), decimal.NewFromInt(500))
	require.NoError(t, err)

	user, err = userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(500).Equal(user.Balance))
}

func (suite *UserTestSuite) TestDecreaseLuckyDrawChances() {
	t := suite.T()
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	userRepo := repository.NewUserRepository()

	for i := 0; i < testutil.User1.LuckyDrawChances; i++ {
		require.NoError(t, userRepo.DecreaseLuckyDrawChances(ctx, testutil.User1.ID))
	}

	err := userRepo.DecreaseLuckyDrawChances(ctx, testutil.User1.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Zero(t, user.LuckyDrawChances)
}

func (suite *UserTestSuite) TestListUsers() {
	t := suite.T()
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)
	userRepo := repository.NewUserRepository()

	count, err := userRepo.Count(ctx, repository.UserFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	active, err := userRepo.CountActive(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), active)

	users, err := userRepo.GetList(ctx, repository.UserFilter{Q: "Patel", Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, testutil.User2.ID, users[0].ID)

	require.NoError(t, userRepo.DeleteByID(ctx, testutil.User2.ID))
	require.ErrorIs(t, userRepo.DeleteByID(ctx, testutil.User2.ID), gorm.ErrRecordNotFound)

	_, err = userRepo.GetByID(ctx, testutil.User2.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	sum, err := userRepo.SumBalance(ctx)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("15000.75").Equal(sum))
}
