package store

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestFindSecret_Found(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("prod-key").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "key_id", "key_type", "pgp_subkey_id", "pgp_public_key", "threshold", "hsm_id"}).
			AddRow(1, "prod-key", nil, "pem", nil, nil, 2, 7))

	secret, err := s.FindSecret("prod-key")
	require.NoError(t, err)
	require.NotNil(t, secret)
	require.Equal(t, KeyTypePEM, secret.KeyType)
	require.Equal(t, 2, secret.Threshold)
	require.Equal(t, 7, secret.HsmId)
}

func TestFindSecret_Missing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	secret, err := s.FindSecret("nope")
	require.NoError(t, err)
	require.Nil(t, secret)
}

func TestInsertSecret_RejectsDuplicateName(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("dup").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "key_id", "key_type", "pgp_subkey_id", "pgp_public_key", "threshold", "hsm_id"}).
			AddRow(1, "dup", nil, "pem", nil, nil, 0, 1))

	err := s.InsertSecret("dup", nil, KeyTypePEM, nil, nil, 0, 1)
	require.Error(t, err)
}

func TestInsertSecret_RejectsDuplicateHsmHandle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("fresh").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT \* FROM secrets WHERE hsm_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "key_id", "key_type", "pgp_subkey_id", "pgp_public_key", "threshold", "hsm_id"}).
			AddRow(9, "other", nil, "pem", nil, nil, 0, 1))

	err := s.InsertSecret("fresh", nil, KeyTypePEM, nil, nil, 0, 1)
	require.Error(t, err)
}

func TestInsertSecret_Success(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("fresh").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`SELECT \* FROM secrets WHERE hsm_id = \$1`).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO secrets`).
		WithArgs("fresh", nil, KeyTypePEM, []byte(nil), []byte(nil), 0, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.InsertSecret("fresh", nil, KeyTypePEM, nil, nil, 0, 1)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetThresholdTx(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE secrets SET threshold = \$1 WHERE id = \$2`).
		WithArgs(4, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.WithTx(func(tx *sqlx.Tx) error {
		return SetThresholdTx(tx, 1, 4)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSecretTx(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO secrets`).
		WithArgs("fresh", nil, KeyTypePEM, []byte(nil), []byte(nil), 0, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.WithTx(func(tx *sqlx.Tx) error {
		return InsertSecretTx(tx, "fresh", nil, KeyTypePEM, nil, nil, 0, 1)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
