package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoward/portfolio-tracker/internal/models"
)

func createTestPortfolio(t *testing.T, testDB *TestDB, userID string) *models.Portfolio {
	t.Helper()
	p := &models.Portfolio{UserID: userID}
	require.NoError(t, testDB.CreatePortfolio(p))
	return p
}

func TestHoldingsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateHolding creates new holding", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		h := &models.Holding{
			PortfolioID:   p.ID,
			Symbol:        "AAPL",
			CompanyName:   "Apple Inc.",
			Quantity:      2,
			PurchasePrice: decimal.NewFromFloat(100.00),
		}
		err := testDB.CreateHolding(h)
		require.NoError(t, err)
		assert.NotEmpty(t, h.ID)
		assert.False(t, h.CreatedAt.IsZero())
		assert.False(t, h.UpdatedAt.IsZero())
	})

	t.Run("GetHoldingByID retrieves holding scoped to portfolio", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		h := &models.Holding{
			PortfolioID:   p.ID,
			Symbol:        "MSFT",
			CompanyName:   "Microsoft Corporation",
			Quantity:      1,
			PurchasePrice: decimal.NewFromFloat(200.00),
		}
		require.NoError(t, testDB.CreateHolding(h))

		retrieved, err := testDB.GetHoldingByID(p.ID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "MSFT", retrieved.Symbol)
		assert.Equal(t, int64(1), retrieved.Quantity)
		assert.True(t, decimal.NewFromFloat(200.00).Equal(retrieved.PurchasePrice))

		// other portfolios cannot see it
		other := createTestPortfolio(t, testDB, "user-2")
		_, err = testDB.GetHoldingByID(other.ID, h.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetHoldingsByPortfolioID returns holdings oldest first", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		symbols := []string{"AAPL", "MSFT", "GOOGL"}
		for _, s := range symbols {
			h := &models.Holding{
				PortfolioID:   p.ID,
				Symbol:        s,
				CompanyName:   s + " Inc.",
				Quantity:      1,
				PurchasePrice: decimal.NewFromFloat(10),
			}
			require.NoError(t, testDB.CreateHolding(h))
		}

		holdings, err := testDB.GetHoldingsByPortfolioID(p.ID)
		require.NoError(t, err)
		require.Len(t, holdings, 3)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
		assert.Equal(t, "MSFT", holdings[1].Symbol)
		assert.Equal(t, "GOOGL", holdings[2].Symbol)
	})

	t.Run("GetHoldingsByPortfolioID returns empty for fresh portfolio", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		holdings, err := testDB.GetHoldingsByPortfolioID(p.ID)
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})

	t.Run("UpdateHolding updates editable fields", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		h := &models.Holding{
			PortfolioID:   p.ID,
			Symbol:        "AMZN",
			CompanyName:   "Amazon.com Inc.",
			Quantity:      1,
			PurchasePrice: decimal.NewFromFloat(90),
		}
		require.NoError(t, testDB.CreateHolding(h))

		h.Quantity = 5
		h.PurchasePrice = decimal.NewFromFloat(95.50)
		require.NoError(t, testDB.UpdateHolding(h))

		retrieved, err := testDB.GetHoldingByID(p.ID, h.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), retrieved.Quantity)
		assert.True(t, decimal.NewFromFloat(95.50).Equal(retrieved.PurchasePrice))
	})

	t.Run("UpdateHolding returns ErrNotFound for missing id", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		h := &models.Holding{
			ID:            "11111111-1111-1111-1111-111111111111",
			PortfolioID:   p.ID,
			Symbol:        "META",
			CompanyName:   "Meta Platforms Inc.",
			Quantity:      1,
			PurchasePrice: decimal.NewFromFloat(300),
		}
		err := testDB.UpdateHolding(h)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteHolding removes holding", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		h := &models.Holding{
			PortfolioID:   p.ID,
			Symbol:        "GOOGL",
			CompanyName:   "Alphabet Inc.",
			Quantity:      1,
			PurchasePrice: decimal.NewFromFloat(140),
		}
		require.NoError(t, testDB.CreateHolding(h))

		require.NoError(t, testDB.DeleteHolding(p.ID, h.ID))

		_, err := testDB.GetHoldingByID(p.ID, h.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteHolding returns ErrNotFound for missing id", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		err := testDB.DeleteHolding(p.ID, "22222222-2222-2222-2222-222222222222")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting portfolio cascades to holdings", func(t *testing.T) {
		testDB.TruncateAll(t)
		p := createTestPortfolio(t, testDB, "user-1")

		h := &models.Holding{
			PortfolioID:   p.ID,
			Symbol:        "AAPL",
			CompanyName:   "Apple Inc.",
			Quantity:      1,
			PurchasePrice: decimal.NewFromFloat(100),
		}
		require.NoError(t, testDB.CreateHolding(h))

		_, err := testDB.GetRawConn().Exec("DELETE FROM portfolios WHERE id = $1", p.ID)
		require.NoError(t, err)

		holdings, err := testDB.GetHoldingsByPortfolioID(p.ID)
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}
