package audit

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coreos/fero/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(sqlx.NewDb(db, "postgres")), mock
}

func TestRecord_ChainsToPriorRowHash(t *testing.T) {
	s, mock := newMockStore(t)

	parentHash := []byte("prior-row-hash-prior-row-hash32")
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT hash FROM fero_logs ORDER BY id DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"hash"}).AddRow(parentHash))

	expectedHash := RowHash(parentHash, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), nil)

	mock.ExpectQuery(`INSERT INTO fero_logs`).
		WithArgs(store.RequestSign, ts, store.ResultSuccess, 0, 0, []byte("ident"), expectedHash).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := s.WithTx(func(tx *sqlx.Tx) error {
		_, txErr := Record(tx, store.RequestSign, store.ResultSuccess, 0, 0, []byte("ident"), nil, ts)
		return txErr
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_RootRowHasNoParentHash(t *testing.T) {
	s, mock := newMockStore(t)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT hash FROM fero_logs ORDER BY id DESC LIMIT 1`).
		WillReturnError(sql.ErrNoRows)

	expectedHash := RowHash(nil, store.RequestAddUser, ts, store.ResultSuccess, []byte("root"), nil)

	mock.ExpectQuery(`INSERT INTO fero_logs`).
		WithArgs(store.RequestAddUser, ts, store.ResultSuccess, 0, 0, []byte("root"), expectedHash).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := s.WithTx(func(tx *sqlx.Tx) error {
		_, txErr := Record(tx, store.RequestAddUser, store.ResultSuccess, 0, 0, []byte("root"), nil, ts)
		return txErr
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_MirrorsHsmLogsBeforeFetchingParentHash(t *testing.T) {
	s, mock := newMockStore(t)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	hsmLogs := []*store.HsmLog{
		{HsmIndex: 1, Command: 0x47, Hash: []byte("hsm-row-hash-hsm-row-hash-padxx")},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO hsm_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT hash FROM fero_logs ORDER BY id DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"hash"}).AddRow(make([]byte, 32)))
	mock.ExpectQuery(`INSERT INTO fero_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	err := s.WithTx(func(tx *sqlx.Tx) error {
		_, txErr := Record(tx, store.RequestSign, store.ResultSuccess, 0, 1, []byte("ident"), hsmLogs, ts)
		return txErr
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
