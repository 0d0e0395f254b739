package dispatcher

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/payload"
	"github.com/coreos/fero/store"
	"github.com/stretchr/testify/require"
)

func TestWeight_AuthorizedUpdatesAndAudits(t *testing.T) {
	h := newHarness(t)
	entity, cert, fingerprint := newTestPGPEntity(t)
	_, targetCert, targetFingerprint := newTestPGPEntity(t)

	reqPayload := payload.Weight("prod-key", targetFingerprint, 4)
	sig := detachedSignFor(t, entity, reqPayload)

	h.mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("prod-key").
		WillReturnRows(sqlmock.NewRows(secretRowColumns()).
			AddRow(1, "prod-key", nil, store.KeyTypePEM, nil, nil, 1, 1))
	h.mock.ExpectQuery(`SELECT \* FROM users WHERE fingerprint = \$1`).
		WithArgs(targetFingerprint).
		WillReturnRows(sqlmock.NewRows(userRowColumns()).AddRow(10, targetFingerprint, targetCert))
	h.mock.ExpectQuery(`SELECT users\.\* FROM users`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userRowColumns()).AddRow(9, fingerprint, cert))
	h.mock.ExpectQuery(`SELECT \* FROM users WHERE fingerprint = \$1`).
		WithArgs(fingerprint).
		WillReturnRows(sqlmock.NewRows(userRowColumns()).AddRow(9, fingerprint, cert))
	h.mock.ExpectQuery(`SELECT weight FROM user_secret_weights`).
		WithArgs(1, 9).
		WillReturnRows(sqlmock.NewRows([]string{"weight"}).AddRow(1))
	h.mock.ExpectQuery(`SELECT COALESCE\(MAX\(hsm_index\), 0\) FROM hsm_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
	h.mock.ExpectBegin()
	h.mock.ExpectExec(`INSERT INTO user_secret_weights`).
		WithArgs(1, 10, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.mock.ExpectQuery(`SELECT hash FROM fero_logs ORDER BY id DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"hash"}).AddRow(make([]byte, 32)))
	h.mock.ExpectQuery(`INSERT INTO fero_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	h.mock.ExpectCommit()

	err := h.d.Weight("prod-key", targetFingerprint, 4, reqPayload, [][]byte{sig})
	require.NoError(t, err)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestWeight_UnknownTargetUserIsNotFound(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("prod-key").
		WillReturnRows(sqlmock.NewRows(secretRowColumns()).
			AddRow(1, "prod-key", nil, store.KeyTypePEM, nil, nil, 1, 1))
	h.mock.ExpectQuery(`SELECT \* FROM users WHERE fingerprint = \$1`).
		WithArgs("ghost-fpr").
		WillReturnError(sql.ErrNoRows)

	err := h.d.Weight("prod-key", "ghost-fpr", 4, payload.Weight("prod-key", "ghost-fpr", 4), nil)
	require.Error(t, err)
	_, ok := err.(*errortypes.NotFoundError)
	require.True(t, ok, "expected *errortypes.NotFoundError, got %T", err)
}
