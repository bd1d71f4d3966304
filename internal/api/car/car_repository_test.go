package car

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-car-catalog/internal/types"
)

var carRowColumns = []string{"id", "brand", "model", "year", "price", "mileage", "color", "vin", "created_at"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresCarRepoList(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("SearchSortAndPage", func(t *testing.T) {
		pool := newMockPool(t)
		pool.MatchExpectationsInOrder(false)
		repo := NewPostgresCarRepo(pool, discardLogger())

		where := " WHERE brand ILIKE $1 OR model ILIKE $1 OR vin ILIKE $1"
		pool.ExpectQuery(regexp.QuoteMeta("SELECT "+carColumns+" FROM cars"+where+" ORDER BY price ASC, id ASC LIMIT $2 OFFSET $3")).
			WithArgs("%toyota%", 5, 5).
			WillReturnRows(pgxmock.NewRows(carRowColumns).
				AddRow(int64(7), "Toyota", "Camry", 2018, float64(1650000), 89000, "Black", "JTNB11HK8J3001234", created))
		pool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cars" + where)).
			WithArgs("%toyota%").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(6)))

		cars, total, err := repo.List(ctx, types.ListCarsParams{Page: 2, Limit: 5, Search: "toyota", SortBy: "price", SortOrder: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(6), total)
		require.Len(t, cars, 1)
		assert.Equal(t, "Camry", cars[0].Model)
		assert.Equal(t, float64(1650000), cars[0].Price)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("NoSearchDefaultSort", func(t *testing.T) {
		pool := newMockPool(t)
		pool.MatchExpectationsInOrder(false)
		repo := NewPostgresCarRepo(pool, discardLogger())

		pool.ExpectQuery(regexp.QuoteMeta("SELECT "+carColumns+" FROM cars ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2")).
			WithArgs(10, 0).
			WillReturnRows(pgxmock.NewRows(carRowColumns))
		pool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cars")).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

		cars, total, err := repo.List(ctx, types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, cars)
		assert.Empty(t, cars)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("LikeWildcardsEscaped", func(t *testing.T) {
		where, args := listFilter(`50%_off\`)
		assert.Contains(t, where, "ILIKE $1")
		assert.Equal(t, []any{`%50\%\_off\\%`}, args)
	})

	t.Run("CountFails", func(t *testing.T) {
		pool := newMockPool(t)
		pool.MatchExpectationsInOrder(false)
		repo := NewPostgresCarRepo(pool, discardLogger())

		pool.ExpectQuery(regexp.QuoteMeta("SELECT "+carColumns+" FROM cars ORDER BY")).
			WithArgs(10, 0).
			WillReturnRows(pgxmock.NewRows(carRowColumns))
		pool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM cars")).
			WillReturnError(errors.New("statement timeout"))

		_, _, err := repo.List(ctx, types.ListCarsParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"})
		assert.ErrorContains(t, err, "statement timeout")
	})
}

func TestPostgresCarRepoGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewPostgresCarRepo(pool, discardLogger())
		pool.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE id = $1")).WithArgs(int64(12)).WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 12)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("Found", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewPostgresCarRepo(pool, discardLogger())
		pool.ExpectQuery(regexp.QuoteMeta("FROM cars WHERE vin = $1")).WithArgs("JTNB11HK8J3001234").
			WillReturnRows(pgxmock.NewRows(carRowColumns).
				AddRow(int64(3), "Toyota", "Camry", 2018, float64(1650000), 89000, "Black", "JTNB11HK8J3001234", time.Now()))

		car, err := repo.GetByVIN(ctx, "JTNB11HK8J3001234")
		require.NoError(t, err)
		assert.Equal(t, int64(3), car.ID)
	})
}

func TestPostgresCarRepoWrites(t *testing.T) {
	ctx := context.Background()
	car := types.Car{Brand: "BMW", Model: "X5", Year: 2020, Price: 5000000, Mileage: 45000, Color: "White", VIN: "WBAKJ4C50BC123456"}

	t.Run("CreateDuplicateVIN", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewPostgresCarRepo(pool, discardLogger())
		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO cars")).
			WithArgs(car.Brand, car.Model, car.Year, car.Price, car.Mileage, car.Color, car.VIN).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "cars_vin_key"})

		_, err := repo.Create(ctx, car)
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewPostgresCarRepo(pool, discardLogger())
		pool.ExpectQuery(regexp.QuoteMeta("UPDATE cars SET")).
			WithArgs(car.Brand, car.Model, car.Year, car.Price, car.Mileage, car.Color, car.VIN, int64(9)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(ctx, 9, car)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewPostgresCarRepo(pool, discardLogger())
		pool.ExpectExec(regexp.QuoteMeta("DELETE FROM cars WHERE id = $1")).WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, 9), types.ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("DeleteExisting", func(t *testing.T) {
		pool := newMockPool(t)
		repo := NewPostgresCarRepo(pool, discardLogger())
		pool.ExpectExec(regexp.QuoteMeta("DELETE FROM cars WHERE id = $1")).WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, 4))
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}
