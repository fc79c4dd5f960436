package employee

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"employeeapi/inner/common"
	"employeeapi/inner/role"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "salary", "hiring_date", "role"}

func setupRepository(t *testing.T) (*Repository, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() {
		// соединение возвращается в пул на любом пути выхода
		assert.Equal(t, 0, sqlxDB.Stats().InUse)
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewEmployeeRepository(sqlxDB), mock, sqlxDB
}

func sampleEntity() Entity {
	return Entity{
		Name:       "Ana",
		Salary:     decimal.RequireFromString("1000.00"),
		HiringDate: common.NewDate(time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Role:       role.Senior,
	}
}

func TestRepository_FindById(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		hired := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectPrepare(selectById).
			ExpectQuery().
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "Ana", "1000.00", hired, "SENIOR"))

		got, found, err := repo.FindById(ctx, 1)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(1), got.Id)
		assert.Equal(t, "1000.00", fixedPoint(got.Salary))
		assert.Equal(t, "2023-03-01", got.HiringDate.String())
		assert.Equal(t, role.Senior, got.Role)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(selectById).
			ExpectQuery().
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, found, err := repo.FindById(ctx, 42)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unknown role in storage", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(selectById).
			ExpectQuery().
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(2), "Bo", "10", time.Now(), "CEO"))

		_, found, err := repo.FindById(ctx, 2)
		assertStorageFailure(t, err, "find")
		assert.False(t, found)
	})

	t.Run("prepare fails", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(selectById).WillReturnError(&pq.Error{Code: "57P01", Message: "terminating connection"})

		_, _, err := repo.FindById(ctx, 1)
		failure := assertStorageFailure(t, err, "find")
		assert.Equal(t, "57P01", failure.Code)
		assert.Equal(t, "Error selecting the employee: pq: terminating connection", failure.Error())
	})
}

func TestRepository_FindPage(t *testing.T) {
	ctx := context.Background()

	t.Run("rows in id order", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		hired := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)
		mock.ExpectPrepare(selectPage).
			ExpectQuery().
			WithArgs(2, 4).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(5), "Ana", "1500.00", hired, "JUNIOR").
				AddRow(int64(6), "Bo", "2500.50", hired, "intern"))

		got, err := repo.FindPage(ctx, 2, 4)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(5), got[0].Id)
		assert.Equal(t, int64(6), got[1].Id)
		assert.Equal(t, role.Intern, got[1].Role)
	})

	t.Run("empty page", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(selectPage).
			ExpectQuery().
			WithArgs(10, 990).
			WillReturnRows(sqlmock.NewRows(columns))

		got, err := repo.FindPage(ctx, 10, 990)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("query fails", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(selectPage).
			ExpectQuery().
			WithArgs(10, 0).
			WillReturnError(sql.ErrConnDone)

		got, err := repo.FindPage(ctx, 10, 0)
		assertStorageFailure(t, err, "find_page")
		assert.Nil(t, got)
	})
}

func TestRepository_Insert(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the generated id", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		entity := sampleEntity()
		mock.ExpectPrepare(insertOne).
			ExpectQuery().
			WithArgs(entity.Name, entity.Salary, entity.HiringDate, entity.Role).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

		got, err := repo.Insert(ctx, entity)
		require.NoError(t, err)
		assert.Equal(t, int64(11), got.Id)
		assert.Equal(t, entity.Name, got.Name)
	})

	t.Run("constraint violation", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		entity := sampleEntity()
		mock.ExpectPrepare(insertOne).
			ExpectQuery().
			WithArgs(entity.Name, entity.Salary, entity.HiringDate, entity.Role).
			WillReturnError(&pq.Error{Code: "22003", Message: "numeric field overflow"})

		_, err := repo.Insert(ctx, entity)
		failure := assertStorageFailure(t, err, "insert")
		assert.Equal(t, "22003", failure.Code)
	})
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	entity := sampleEntity()
	entity.Id = 3

	t.Run("row affected", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(updateOne).
			ExpectExec().
			WithArgs(entity.Name, entity.Salary, entity.HiringDate, entity.Role, entity.Id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.Update(ctx, entity)
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("no such row", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(updateOne).
			ExpectExec().
			WithArgs(entity.Name, entity.Salary, entity.HiringDate, entity.Role, entity.Id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.Update(ctx, entity)
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("rows affected unavailable", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(updateOne).
			ExpectExec().
			WithArgs(entity.Name, entity.Salary, entity.HiringDate, entity.Role, entity.Id).
			WillReturnResult(sqlmock.NewErrorResult(errors.New("driver does not support RowsAffected")))

		_, err := repo.Update(ctx, entity)
		assertStorageFailure(t, err, "update")
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(deleteOne).
			ExpectExec().
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := repo.Delete(ctx, 4)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("nothing to delete", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(deleteOne).
			ExpectExec().
			WithArgs(int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := repo.Delete(ctx, 999)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("exec fails", func(t *testing.T) {
		repo, mock, _ := setupRepository(t)
		mock.ExpectPrepare(deleteOne).
			ExpectExec().
			WithArgs(int64(4)).
			WillReturnError(errors.New("connection reset by peer"))

		_, err := repo.Delete(ctx, 4)
		assertStorageFailure(t, err, "delete")
	})
}

func TestRepository_CancelledContext(t *testing.T) {
	repo, _, _ := setupRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.FindById(ctx, 1)
	failure := assertStorageFailure(t, err, "find")
	assert.ErrorIs(t, failure, context.Canceled)
}

func assertStorageFailure(t *testing.T, err error, op string) *common.StorageFailure {
	t.Helper()
	require.Error(t, err)
	var failure *common.StorageFailure
	require.True(t, errors.As(err, &failure), "expected StorageFailure, got %T: %v", err, err)
	assert.Equal(t, op, failure.Op)
	assert.NotNil(t, failure.Cause)
	return failure
}
