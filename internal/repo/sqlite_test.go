package repo

import (
	"context"
	"testing"

	"Tasklist/internal/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestOpenSQLiteInMemory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrations.Up(db, migrations.DialectSQLite))
	r := NewSQLiteItemRepo(db)

	_, err = r.Insert(context.Background(), "in memory")
	require.NoError(t, err)
	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
