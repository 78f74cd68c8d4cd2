package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tinytrail/internal/db"
	"github.com/alexanderramin/tinytrail/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRepo_GetItem_MissingKey(t *testing.T) {
	repo := NewSQLiteStorageRepo(testutil.NewTestDB(t))

	_, err := repo.GetItem(context.Background(), "JWT_TOKEN")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorageRepo_SetThenGet(t *testing.T) {
	repo := NewSQLiteStorageRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetItem(ctx, "JWT_TOKEN", `"abc"`))

	got, err := repo.GetItem(ctx, "JWT_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, got)
}

func TestStorageRepo_SetItem_Overwrites(t *testing.T) {
	repo := NewSQLiteStorageRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetItem(ctx, "JWT_TOKEN", "first"))
	require.NoError(t, repo.SetItem(ctx, "JWT_TOKEN", "second"))

	got, err := repo.GetItem(ctx, "JWT_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStorageRepo_StoresEmptyStringVerbatim(t *testing.T) {
	repo := NewSQLiteStorageRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	// The repository is a dumb store; rejecting empty credentials is the
	// credential store's job.
	require.NoError(t, repo.SetItem(ctx, "k", ""))
	got, err := repo.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStorageRepo_RemoveItem_Idempotent(t *testing.T) {
	repo := NewSQLiteStorageRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetItem(ctx, "JWT_TOKEN", "abc"))
	require.NoError(t, repo.RemoveItem(ctx, "JWT_TOKEN"))
	require.NoError(t, repo.RemoveItem(ctx, "JWT_TOKEN"))

	_, err := repo.GetItem(ctx, "JWT_TOKEN")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorageRepo_WithinTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepo := NewSQLiteStorageRepo(tx)
		if err := txRepo.SetItem(ctx, "JWT_TOKEN", "abc"); err != nil {
			return err
		}
		return txRepo.SetItem(ctx, "USERNAME", "ada")
	})
	require.NoError(t, err)

	repo := NewSQLiteStorageRepo(database)
	got, err := repo.GetItem(ctx, "USERNAME")
	require.NoError(t, err)
	assert.Equal(t, "ada", got)
}
