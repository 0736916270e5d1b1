package xcontext_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wealthfund/backend/pkg/testutil"
	"github.com/wealthfund/backend/pkg/xcontext"
)

func Test_DBTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	require.NoError(t, xcontext.DB(ctx).Exec("CREATE TABLE kv (k TEXT PRIMARY KEY)").Error)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, xcontext.DB(txCtx).Exec("INSERT INTO kv VALUES ('a')").Error)

	// A joined transaction never commits on behalf of its owner.
	nestedCtx := xcontext.WithDBTransaction(txCtx)
	require.NoError(t, xcontext.DB(nestedCtx).Exec("INSERT INTO kv VALUES ('b')").Error)
	require.NoError(t, xcontext.WithCommitDBTransaction(nestedCtx))
	xcontext.WithRollbackDBTransaction(nestedCtx)

	require.NoError(t, xcontext.WithCommitDBTransaction(txCtx))
	// Committing twice is a no-op.
	require.NoError(t, xcontext.WithCommitDBTransaction(txCtx))

	var count int64
	require.NoError(t, xcontext.DB(ctx).Table("kv").Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func Test_WithCommitDBTransaction_Error(t *testing.T) {
	ctx := testutil.MockContext()
	require.NoError(t, xcontext.DB(ctx).Exec("CREATE TABLE kv (k TEXT PRIMARY KEY)").Error)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, xcontext.DB(txCtx).Exec("INSERT INTO kv VALUES ('a')").Error)

	// The connection drops the transaction underneath its owner.
	require.NoError(t, xcontext.DB(txCtx).Rollback().Error)

	require.Error(t, xcontext.WithCommitDBTransaction(txCtx))

	var count int64
	require.NoError(t, xcontext.DB(ctx).Table("kv").Count(&count).Error)
	require.Zero(t, count)
}
