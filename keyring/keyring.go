// Package keyring is the Keyring (§4.2): the Dispatcher's view onto
// persisted user certificates, secret metadata, and weights. Every method
// here is linearizable with respect to the Dispatcher's serialization
// lock (§5); the Keyring itself holds no lock of its own beyond the
// in-memory certificate cache's mutex.
package keyring

import (
	"bytes"
	"encoding/hex"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/sigverify"
	"github.com/coreos/fero/store"
	"github.com/coreos/fero/utils"
	"github.com/dropbox/godropbox/errors"
)

// Keyring wraps a Store with an in-memory certificate cache (§5: "User
// certs, once parsed, are cached in memory keyed by fingerprint; the
// cache is invalidated on insert_user").
type Keyring struct {
	store *store.Store

	certMu sync.RWMutex
	certs  map[string][]byte
}

func New(s *store.Store) *Keyring {
	return &Keyring{
		store: s,
		certs: map[string][]byte{},
	}
}

func (k *Keyring) FindUser(fingerprint string) (*store.User, error) {
	return k.store.FindUser(utils.CanonicalFingerprint(fingerprint))
}

func (k *Keyring) FindSecret(name string) (*store.Secret, error) {
	return k.store.FindSecret(name)
}

func (k *Keyring) GetWeight(secretId, userId int) (int, error) {
	return k.store.GetWeight(secretId, userId)
}

// CandidatesForSecret returns every weighted user's fingerprint and
// certificate for secretId, using the in-memory cache where possible
// (§5). This is the set the Verifier checks submitted signatures
// against (§4.3).
func (k *Keyring) CandidatesForSecret(secretId int) (candidates []sigverify.Candidate, err error) {
	users, err := k.store.UsersForSecret(secretId)
	if err != nil {
		return
	}

	candidates = make([]sigverify.Candidate, 0, len(users))
	for _, u := range users {
		cert := k.cachedCert(u.Fingerprint, u.Cert)
		candidates = append(candidates, sigverify.Candidate{
			Fingerprint: u.Fingerprint,
			Cert:        cert,
		})
	}

	return
}

func (k *Keyring) cachedCert(fingerprint string, fallback []byte) []byte {
	k.certMu.RLock()
	cert, ok := k.certs[fingerprint]
	k.certMu.RUnlock()
	if ok {
		return cert
	}

	k.certMu.Lock()
	k.certs[fingerprint] = fallback
	k.certMu.Unlock()

	return fallback
}

// InsertUser parses cert once, canonicalizes its fingerprint to
// 40-hex-character lower case, and rejects a duplicate with
// errortypes.ExistsError (§4.2).
func (k *Keyring) InsertUser(cert []byte) (fingerprint string, err error) {
	fingerprint, err = ParseCertFingerprint(cert)
	if err != nil {
		return
	}

	err = k.store.InsertUser(fingerprint, cert)
	if err != nil {
		return
	}

	k.certMu.Lock()
	k.certs[fingerprint] = cert
	k.certMu.Unlock()

	return
}

// ParseCertFingerprint parses a single-entity PGP certificate and
// returns its primary key's canonical fingerprint, without touching
// persisted state. It exists so the local AddUser path (§4.5), which
// commits its insert and audit row together in one transaction, can
// reuse the same parsing the network-facing InsertUser does.
func ParseCertFingerprint(cert []byte) (fingerprint string, err error) {
	entities, err := openpgp.ReadKeyRing(bytes.NewReader(cert))
	if err != nil {
		err = &errortypes.ParseError{
			DropboxError: errors.Wrap(err, "keyring: Failed to parse PGP certificate"),
		}
		return
	}
	if len(entities) != 1 {
		err = &errortypes.ParseError{
			DropboxError: errors.New("keyring: Certificate must contain exactly one primary key"),
		}
		return
	}

	fingerprint = utils.CanonicalFingerprint(
		hex.EncodeToString(entities[0].PrimaryKey.Fingerprint[:]),
	)

	return
}

func (k *Keyring) InsertSecret(name string, keyId *int64, keyType store.KeyType, pgpSubkeyId, pgpPublicKey []byte, threshold, hsmId int) error {
	return k.store.InsertSecret(name, keyId, keyType, pgpSubkeyId, pgpPublicKey, threshold, hsmId)
}
