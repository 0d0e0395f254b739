package dispatcher

import (
	"bytes"
	"crypto"
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/coreos/fero/audit"
	"github.com/coreos/fero/authz"
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/sigverify"
	"github.com/coreos/fero/store"
	dropboxerrors "github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// Sign executes the Sign request kind (§4.5): look the secret up, check
// submitted signatures against its candidate signers, authorize against
// its current threshold, and — only once authorized — call the HSM
// exactly once, retried once on a transient failure, to produce the
// wire-format signature the secret's key type calls for.
func (d *Dispatcher) Sign(secretName string, payload []byte, signatures [][]byte) (signature []byte, err error) {
	secret, err := d.keyring.FindSecret(secretName)
	if err != nil {
		return
	}
	if secret == nil {
		err = &errortypes.NotFoundError{
			DropboxError: dropboxerrors.Newf("dispatcher: Unknown secret %s", secretName),
		}
		return
	}

	candidates, err := d.keyring.CandidatesForSecret(secret.Id)
	if err != nil {
		return
	}

	verified, _ := sigverify.Verify(payload, signatures, candidates)

	decision, err := authz.Authorize(d.keyring, secret, verified)
	if err != nil {
		return
	}

	ident := identification(secretName, decision.Contributors)

	if !decision.Authorized {
		err = &errortypes.AuthorizationError{
			DropboxError: dropboxerrors.Newf(
				"dispatcher: %s has %d of %d required", secretName, decision.Total, decision.Threshold,
			),
			Have: decision.Total,
			Need: decision.Threshold,
		}
		if auditErr := d.auditNoHsm(store.RequestSign, store.ResultFailure, ident); auditErr != nil {
			return nil, auditErr
		}
		return
	}

	d.gw.Lock()
	defer d.gw.Unlock()

	startIndex, err := d.store.LastHsmIndex()
	if err != nil {
		return
	}

	signature, signErr := d.signPayload(secret, payload)

	entries, logErr := d.gw.FetchLog(uint16(startIndex))
	if logErr != nil {
		if signErr != nil {
			return nil, signErr
		}
		return nil, logErr
	}

	hsmLogs := toStoreLogs(entries)
	endIndex := startIndex
	if len(hsmLogs) > 0 {
		endIndex = hsmLogs[len(hsmLogs)-1].HsmIndex
	}

	result := store.ResultSuccess
	if signErr != nil {
		result = store.ResultFailure
	}

	commitErr := d.store.WithTx(func(tx *sqlx.Tx) error {
		_, txErr := audit.Record(tx, store.RequestSign, result, startIndex, endIndex, ident, hsmLogs, time.Now().UTC())
		return txErr
	})
	if commitErr != nil {
		return nil, commitErr
	}
	if signErr != nil {
		return nil, signErr
	}

	return signature, nil
}

// signPayload produces the actual wire-format signature bytes for a
// secret that has already cleared authorization. For a PEM secret,
// payload is already the SHA-256 digest of the caller's content and the
// Gateway's result is the signature verbatim (§4.5). For a PGP secret,
// payload is the message the server assembles a full OpenPGP binary
// signature packet over, delegating the private-key step to the HSM.
func (d *Dispatcher) signPayload(secret *store.Secret, payload []byte) ([]byte, error) {
	switch secret.KeyType {
	case store.KeyTypePEM:
		return signWithRetry(d.gw, uint16(secret.HsmId), sha256DigestInfo(payload))

	case store.KeyTypePGP:
		return d.signPGP(secret, payload)

	default:
		return nil, &errortypes.InternalError{
			DropboxError: dropboxerrors.Newf(
				"dispatcher: Secret %s has unrecognized key type %q", secret.Name, secret.KeyType,
			),
		}
	}
}

// signPGP builds a detached, binary OpenPGP signature over payload,
// using the Gateway as the private-key backend for the subkey the
// admin registered at add-secret time. The subkey's stored public key packet supplies
// the fingerprint and key ID the resulting signature must carry.
func (d *Dispatcher) signPGP(secret *store.Secret, payload []byte) ([]byte, error) {
	pub, err := parsePublicKeyPacket(secret.PgpPublicKey)
	if err != nil {
		return nil, &errortypes.InternalError{
			DropboxError: dropboxerrors.Wrap(err, "dispatcher: Failed to parse stored PGP subkey"),
		}
	}

	signer := &hsmSigner{
		gw:     d.gw,
		handle: uint16(secret.HsmId),
		public: pub.PublicKey,
	}

	privKey := &packet.PrivateKey{PublicKey: *pub, PrivateKey: signer}

	sig := &packet.Signature{
		SigType:      packet.SigTypeBinary,
		PubKeyAlgo:   packet.PubKeyAlgoRSA,
		Hash:         crypto.SHA256,
		CreationTime: time.Now(),
		IssuerKeyId:  &pub.KeyId,
	}

	h := sha256.New()
	h.Write(payload)

	if err := sig.Sign(h, privKey, nil); err != nil {
		var hsmErr *errortypes.HsmError
		if errors.As(err, &hsmErr) {
			return nil, hsmErr
		}
		return nil, &errortypes.HsmError{
			DropboxError: dropboxerrors.Wrap(err, "dispatcher: HSM signing operation failed"),
		}
	}

	var buf bytes.Buffer
	if err := sig.Serialize(&buf); err != nil {
		return nil, &errortypes.InternalError{
			DropboxError: dropboxerrors.Wrap(err, "dispatcher: Failed to serialize PGP signature"),
		}
	}

	return buf.Bytes(), nil
}

func parsePublicKeyPacket(der []byte) (*packet.PublicKey, error) {
	pkt, err := packet.Read(bytes.NewReader(der))
	if err != nil {
		return nil, err
	}

	pub, ok := pkt.(*packet.PublicKey)
	if !ok {
		return nil, errors.New("dispatcher: stored PGP key is not a public key packet")
	}

	return pub, nil
}

// rawSigner is the single Gateway method signWithRetry needs, narrowed to
// an interface so a scripted fake can exercise the retry branch in tests
// without a real device session.
type rawSigner interface {
	Sign(handle uint16, octets []byte) ([]byte, error)
}

// signWithRetry calls the Gateway's raw PKCS#1 v1.5 primitive, retried
// exactly once on a transient HSM failure (§4.5, §7). Both key types'
// sign paths funnel through this: the PEM path calls it directly, the PGP
// path through hsmSigner.Sign.
func signWithRetry(gw rawSigner, handle uint16, octets []byte) (signature []byte, err error) {
	signature, err = gw.Sign(handle, octets)
	if err != nil {
		var hsmErr *errortypes.HsmError
		if errors.As(err, &hsmErr) && hsmErr.Transient {
			signature, err = gw.Sign(handle, octets)
		}
	}

	return
}

// hsmSigner adapts the Gateway's raw PKCS#1 v1.5 primitive to the
// crypto.Signer interface go-crypto's packet.Signature.Sign calls for an
// RSA packet.PrivateKey whose private half is a signer, the same way a smartcard-backed OpenPGP implementation would delegate
// the private-key step to hardware.
type hsmSigner struct {
	gw     *hsm.Gateway
	handle uint16
	public crypto.PublicKey
}

func (s *hsmSigner) Public() crypto.PublicKey {
	return s.public
}

// Sign retries exactly once on a transient HSM failure (§4.5, §7); a
// non-transient failure (bad handle, authentication failure) is not
// worth retrying and is returned as-is.
func (s *hsmSigner) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) (signature []byte, err error) {
	if opts.HashFunc() != crypto.SHA256 {
		return nil, errors.New("dispatcher: HSM signer only supports SHA-256")
	}

	return signWithRetry(s.gw, s.handle, sha256DigestInfo(digest))
}
