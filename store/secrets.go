package store

import (
	"database/sql"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// FindSecret looks up a secret by its wire-visible name (§4.2). A miss
// returns a nil *Secret and a nil error; the Dispatcher turns a nil result
// into UnknownSecret before any signature verification (§4.5).
func (s *Store) FindSecret(name string) (secret *Secret, err error) {
	secret = &Secret{}

	err = s.db.Get(secret, `SELECT * FROM secrets WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query secret"),
		}
		return nil, err
	}

	return
}

// InsertSecret creates a new secret row, rejecting a duplicate name or
// HSM handle (§4.2). It is only ever called from the local, offline
// add-secret path (§4.5), never in response to a network request.
func (s *Store) InsertSecret(name string, keyId *int64, keyType KeyType, pgpSubkeyId, pgpPublicKey []byte, threshold, hsmId int) (err error) {
	existing, err := s.FindSecret(name)
	if err != nil {
		return
	}
	if existing != nil {
		err = &errortypes.ExistsError{
			DropboxError: errors.Newf("store: Secret %s already exists", name),
		}
		return
	}

	var dup Secret
	err = s.db.Get(&dup, `SELECT * FROM secrets WHERE hsm_id = $1`, hsmId)
	if err == nil {
		err = &errortypes.ExistsError{
			DropboxError: errors.Newf("store: HSM handle %d already in use", hsmId),
		}
		return
	}
	if err != sql.ErrNoRows {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to check HSM handle uniqueness"),
		}
		return
	}
	err = nil

	_, err = s.db.Exec(
		`INSERT INTO secrets (name, key_id, key_type, pgp_subkey_id, pgp_public_key, threshold, hsm_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		name, keyId, keyType, pgpSubkeyId, pgpPublicKey, threshold, hsmId,
	)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to insert secret"),
		}
		return
	}

	return
}

// InsertSecretTx is InsertSecret's transactional form, used by the local
// AddSecret path (§4.5) so the insert commits atomically with its audit
// row. It runs no duplicate checks of its own: the local AddSecret path
// checks the name beforehand, outside tx, and the HSM handle is not
// checked on this path. A race against a concurrent AddSecret is excluded by the Dispatcher's
// serialization (§5), not by this function.
func InsertSecretTx(tx *sqlx.Tx, name string, keyId *int64, keyType KeyType, pgpSubkeyId, pgpPublicKey []byte, threshold, hsmId int) (err error) {
	_, err = tx.Exec(
		`INSERT INTO secrets (name, key_id, key_type, pgp_subkey_id, pgp_public_key, threshold, hsm_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		name, keyId, keyType, pgpSubkeyId, pgpPublicKey, threshold, hsmId,
	)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to insert secret"),
		}
		return
	}

	return
}

// SetThresholdTx sets a secret's quorum threshold within tx, so the write
// commits atomically with the mutation's audit row (§4.6; the read of
// the pre-mutation threshold and this write share one serialized
// critical section).
func SetThresholdTx(tx *sqlx.Tx, secretId, threshold int) (err error) {
	_, err = tx.Exec(`UPDATE secrets SET threshold = $1 WHERE id = $2`, threshold, secretId)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to update threshold"),
		}
		return
	}

	return
}
