package repository

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOrderByFallsBackOnUnknownColumn(t *testing.T) {
	assert.Equal(t, "ORDER BY name ASC", orderBy("name", "asc", classSorts, "name"))
	assert.Equal(t, "ORDER BY created_at DESC", orderBy("1; DROP TABLE classes", "", classSorts, "created_at"))
}

func TestLimitOffset(t *testing.T) {
	assert.Equal(t, "LIMIT 20 OFFSET 0", limitOffset(0, 0))
	assert.Equal(t, "LIMIT 10 OFFSET 20", limitOffset(3, 10))
	assert.Equal(t, "LIMIT 100 OFFSET 0", limitOffset(1, 500))
}
