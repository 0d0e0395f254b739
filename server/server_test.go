package server

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"database/sql"
	"encoding/hex"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/coreos/fero/dispatcher"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/internal/proto"
	"github.com/coreos/fero/keyring"
	"github.com/coreos/fero/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// newTestServer wires a Server to the same real-Gateway/sqlmock-store
// split the dispatcher package's own tests use (cmd/fero/connect.go
// assembles the production stack the same way). It returns the Gateway
// too, so a test can import a key directly the way the provisioning CLI
// does, without scripting AddSecret's own store calls.
func newTestServer(t *testing.T) (*Server, *hsm.Gateway, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(sqlx.NewDb(db, "postgres"))
	kr := keyring.New(st)

	gw, err := hsm.Open(hsm.NewDevTransport(), 3, "password")
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })

	d := dispatcher.New(gw, st, kr)
	return New(d, st), gw, mock
}

func testRSAKeyDER(t *testing.T) []byte {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return x509.MarshalPKCS1PrivateKey(key)
}

func newServerTestEntity(t *testing.T) (*openpgp.Entity, []byte, string) {
	t.Helper()

	entity, err := openpgp.NewEntity("signer", "", "signer@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, entity.Serialize(&buf))

	return entity, buf.Bytes(), hex.EncodeToString(entity.PrimaryKey.Fingerprint[:])
}

func TestServerSign_AuthorizedRequestReturnsSignature(t *testing.T) {
	s, gw, mock := newTestServer(t)

	handle, err := gw.ImportRSA(testRSAKeyDER(t))
	require.NoError(t, err)

	entity, cert, fingerprint := newServerTestEntity(t)
	payload := []byte("document")
	digest := sha256.Sum256(payload)

	var sigBuf bytes.Buffer
	require.NoError(t, openpgp.DetachSign(&sigBuf, entity, bytes.NewReader(digest[:]), nil))

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("prod-key").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "key_id", "key_type", "pgp_subkey_id", "pgp_public_key", "threshold", "hsm_id"}).
			AddRow(1, "prod-key", nil, store.KeyTypePEM, nil, nil, 1, int(handle)))
	mock.ExpectQuery(`SELECT users\.\* FROM users`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "fingerprint", "cert"}).AddRow(9, fingerprint, cert))
	mock.ExpectQuery(`SELECT \* FROM users WHERE fingerprint = \$1`).
		WithArgs(fingerprint).
		WillReturnRows(sqlmock.NewRows([]string{"id", "fingerprint", "cert"}).AddRow(9, fingerprint, cert))
	mock.ExpectQuery(`SELECT weight FROM user_secret_weights`).
		WithArgs(1, 9).
		WillReturnRows(sqlmock.NewRows([]string{"weight"}).AddRow(1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(hsm_index\), 0\) FROM hsm_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO hsm_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT hash FROM fero_logs ORDER BY id DESC LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"hash"}).AddRow(make([]byte, 32)))
	mock.ExpectQuery(`INSERT INTO fero_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	resp, err := s.Sign(context.Background(), &proto.SignRequest{
		Identification: &proto.Identification{
			SecretName: "prod-key",
			Payload:    digest[:],
			Signatures: [][]byte{sigBuf.Bytes()},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.GetPayload())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServerSign_UnknownSecretMapsToNotFound(t *testing.T) {
	s, _, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT \* FROM secrets WHERE name = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Sign(context.Background(), &proto.SignRequest{
		Identification: &proto.Identification{SecretName: "ghost"},
	})
	require.Error(t, err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.NotFound, st.Code())
}

func TestServerGetLogs_ReturnsConvertedRows(t *testing.T) {
	s, _, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT \* FROM fero_logs WHERE id > \$1 ORDER BY id ASC`).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "request_type", "timestamp", "result", "hsm_index_start", "hsm_index_end", "identification", "hash"}))
	mock.ExpectQuery(`SELECT \* FROM hsm_logs WHERE hsm_index > \$1 ORDER BY hsm_index ASC`).
		WithArgs(0).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "hsm_index", "command", "data_length", "session_key", "target_key", "second_key", "result", "systick", "hash"}))

	resp, err := s.GetLogs(context.Background(), &proto.LogRequest{SinceIndex: 0})
	require.NoError(t, err)
	require.Empty(t, resp.GetFeroLogs())
	require.Empty(t, resp.GetHsmLogs())
}
