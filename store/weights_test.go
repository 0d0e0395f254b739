package store

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestGetWeight_Found(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT weight FROM user_secret_weights WHERE secret_id = \$1 AND user_id = \$2`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"weight"}).AddRow(3))

	weight, err := s.GetWeight(1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, weight)
}

func TestGetWeight_AbsentRowIsZeroNotError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT weight FROM user_secret_weights WHERE secret_id = \$1 AND user_id = \$2`).
		WithArgs(1, 2).
		WillReturnError(sql.ErrNoRows)

	weight, err := s.GetWeight(1, 2)
	require.NoError(t, err)
	require.Equal(t, 0, weight)
}

func TestSetWeightTx_Upserts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO user_secret_weights`).
		WithArgs(1, 2, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(func(tx *sqlx.Tx) error {
		return SetWeightTx(tx, 1, 2, 5)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
