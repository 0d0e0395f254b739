package dispatcher

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/keyring"
	"github.com/coreos/fero/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// testRSAKeyDERForLocal generates a fresh RSA private key in PKCS#1 DER
// form, standing in for the key material an operator hands AddSecret on
// the local provisioning path (the Gateway, not the test, performs the
// actual import).
func testRSAKeyDERForLocal(t *testing.T) []byte {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return x509.MarshalPKCS1PrivateKey(key)
}

// testHarness wires a real hsm.Gateway (backed by hsm.DevTransport, which
// performs genuine RSA key import and PKCS#1 v1.5 signing) to a
// sqlmock-backed store, the same split used throughout this package's
// production wiring (cmd/fero/connect.go).
type testHarness struct {
	d    *Dispatcher
	mock sqlmock.Sqlmock
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(sqlx.NewDb(db, "postgres"))
	kr := keyring.New(st)

	gw, err := hsm.Open(hsm.NewDevTransport(), 3, "password")
	require.NoError(t, err)
	t.Cleanup(func() { gw.Close() })

	return &testHarness{
		d:    New(gw, st, kr),
		mock: mock,
	}
}

// importTestKey imports a fresh RSA key into the harness's transport and
// returns its device handle, standing in for a secret the provisioning
// CLI has already registered.
func (h *testHarness) importTestKey(t *testing.T) uint16 {
	t.Helper()

	handle, _ := h.importTestKeyPair(t)
	return handle
}

// importTestKeyPair is importTestKey, but also returns the RSA key pair
// itself so a PGP secret's stored public key packet can be built from
// the exact key the HSM now holds the private half of.
func (h *testHarness) importTestKeyPair(t *testing.T) (uint16, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	handle, err := h.d.gw.ImportRSA(x509.MarshalPKCS1PrivateKey(key))
	require.NoError(t, err)

	return handle, key
}

// subkeyPublicKeyPacket serializes pub as the lone PGP public key packet
// a PGP secret's pgp_public_key column stores, the same shape
// dispatcher.parsePublicKeyPacket expects to read back.
func subkeyPublicKeyPacket(t *testing.T, pub *rsa.PublicKey) []byte {
	t.Helper()

	pk := packet.NewRSAPublicKey(time.Now(), pub)

	var buf bytes.Buffer
	require.NoError(t, pk.Serialize(&buf))
	return buf.Bytes()
}

func newTestPGPEntity(t *testing.T) (*openpgp.Entity, []byte, string) {
	t.Helper()

	entity, err := openpgp.NewEntity("signer", "", "signer@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, entity.Serialize(&buf))

	fingerprint := hex.EncodeToString(entity.PrimaryKey.Fingerprint[:])

	return entity, buf.Bytes(), fingerprint
}

func detachedSignFor(t *testing.T, entity *openpgp.Entity, payload []byte) []byte {
	t.Helper()

	var sig bytes.Buffer
	require.NoError(t, openpgp.DetachSign(&sig, entity, bytes.NewReader(payload), nil))
	return sig.Bytes()
}

func secretRowColumns() []string {
	return []string{"id", "name", "key_id", "key_type", "pgp_subkey_id", "pgp_public_key", "threshold", "hsm_id"}
}

func userRowColumns() []string {
	return []string{"id", "fingerprint", "cert"}
}
