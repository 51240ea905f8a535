package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("all tables exist", func(t *testing.T) {
		expectedTables := []string{
			"portfolios",
			"stock_holdings",
		}

		for _, tableName := range expectedTables {
			var exists bool
			err := testDB.GetRawConn().QueryRow(`
				SELECT EXISTS (
					SELECT FROM information_schema.tables
					WHERE table_schema = 'public'
					AND table_name = $1
				)
			`, tableName).Scan(&exists)

			require.NoError(t, err, "failed to check table existence for %s", tableName)
			assert.True(t, exists, "table %s should exist", tableName)
		}
	})

	t.Run("stock_holdings table has correct columns", func(t *testing.T) {
		expectedColumns := []string{
			"id", "portfolio_id", "symbol", "company_name", "quantity",
			"purchase_price", "created_at", "updated_at",
		}

		for _, colName := range expectedColumns {
			var exists bool
			err := testDB.GetRawConn().QueryRow(`
				SELECT EXISTS (
					SELECT FROM information_schema.columns
					WHERE table_name = 'stock_holdings' AND column_name = $1
				)
			`, colName).Scan(&exists)

			require.NoError(t, err)
			assert.True(t, exists, "column %s should exist in stock_holdings table", colName)
		}
	})

	t.Run("portfolios.user_id has unique constraint", func(t *testing.T) {
		var userUnique bool
		err := testDB.GetRawConn().QueryRow(`
			SELECT EXISTS (
				SELECT FROM pg_constraint c
				JOIN pg_class t ON c.conrelid = t.oid
				WHERE t.relname = 'portfolios'
				AND c.contype = 'u'
				AND c.conname LIKE '%user_id%'
			)
		`).Scan(&userUnique)
		require.NoError(t, err)
		assert.True(t, userUnique, "portfolios.user_id should have unique constraint")
	})

	t.Run("stock_holdings references portfolios", func(t *testing.T) {
		var holdingsFK bool
		err := testDB.GetRawConn().QueryRow(`
			SELECT EXISTS (
				SELECT FROM pg_constraint c
				JOIN pg_class t ON c.conrelid = t.oid
				WHERE t.relname = 'stock_holdings'
				AND c.contype = 'f'
			)
		`).Scan(&holdingsFK)
		require.NoError(t, err)
		assert.True(t, holdingsFK, "stock_holdings should have foreign key to portfolios")
	})
}
