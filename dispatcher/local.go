package dispatcher

import (
	"time"

	"github.com/coreos/fero/audit"
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/keyring"
	"github.com/coreos/fero/store"
	dropboxerrors "github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// AddUser registers a new PGP principal (§4.5, AddUser). It is an HSM
// application-credential-authorized, local operation — invoked only
// from the provisioning CLI, never reachable over the network service
// surface.
func (d *Dispatcher) AddUser(cert []byte) (fingerprint string, err error) {
	d.gw.Lock()
	defer d.gw.Unlock()

	fingerprint, err = keyring.ParseCertFingerprint(cert)
	if err != nil {
		return
	}

	existing, err := d.keyring.FindUser(fingerprint)
	if err != nil {
		return
	}
	if existing != nil {
		err = &errortypes.ExistsError{
			DropboxError: dropboxerrors.Newf("dispatcher: User %s already exists", fingerprint),
		}
		return
	}

	index, err := d.store.LastHsmIndex()
	if err != nil {
		return
	}

	ident := identification(fingerprint, nil)

	err = d.store.WithTx(func(tx *sqlx.Tx) error {
		if txErr := store.InsertUserTx(tx, fingerprint, cert); txErr != nil {
			return txErr
		}
		_, txErr := audit.Record(tx, store.RequestAddUser, store.ResultSuccess, index, index, ident, nil, time.Now().UTC())
		return txErr
	})
	if err != nil {
		fingerprint = ""
		return
	}

	return
}

// AddSecret registers a new secret (§4.5, AddSecret): it imports
// keyMaterial into the HSM, then records the resulting handle alongside
// the secret's name, key type, initial threshold, and — for a PGP
// secret — the subkey's public key packet (needed later to build
// signatures the HSM's private-key operation alone can't produce). Like
// AddUser,
// it is a local operation, never reached over the network.
func (d *Dispatcher) AddSecret(name string, keyMaterial []byte, keyType store.KeyType, pgpPublicKey []byte, threshold int) (err error) {
	d.gw.Lock()
	defer d.gw.Unlock()

	existing, err := d.keyring.FindSecret(name)
	if err != nil {
		return
	}
	if existing != nil {
		err = &errortypes.ExistsError{
			DropboxError: dropboxerrors.Newf("dispatcher: Secret %s already exists", name),
		}
		return
	}

	var pgpSubkeyId []byte
	if keyType == store.KeyTypePGP {
		pub, perr := parsePublicKeyPacket(pgpPublicKey)
		if perr != nil {
			err = &errortypes.ParseError{
				DropboxError: dropboxerrors.Wrap(perr, "dispatcher: Failed to parse PGP subkey"),
			}
			return
		}
		pgpSubkeyId = append([]byte(nil), pub.Fingerprint[:]...)
	}

	startIndex, err := d.store.LastHsmIndex()
	if err != nil {
		return
	}

	handle, err := d.gw.ImportRSA(keyMaterial)
	if err != nil {
		return
	}

	entries, err := d.gw.FetchLog(uint16(startIndex))
	if err != nil {
		return
	}

	hsmLogs := toStoreLogs(entries)
	endIndex := startIndex
	if len(hsmLogs) > 0 {
		endIndex = hsmLogs[len(hsmLogs)-1].HsmIndex
	}

	ident := identification(name, nil)

	return d.store.WithTx(func(tx *sqlx.Tx) error {
		if txErr := store.InsertSecretTx(tx, name, nil, keyType, pgpSubkeyId, pgpPublicKey, threshold, int(handle)); txErr != nil {
			return txErr
		}
		_, txErr := audit.Record(tx, store.RequestAddSecret, store.ResultSuccess, startIndex, endIndex, ident, hsmLogs, time.Now().UTC())
		return txErr
	})
}
