package store

import (
	"database/sql"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// FindUser looks up a user by canonical fingerprint (§4.2). A miss is not
// an error; callers distinguish "not found" from "lookup failed" via the
// returned *User being nil.
func (s *Store) FindUser(fingerprint string) (user *User, err error) {
	user = &User{}

	err = s.db.Get(user, `SELECT * FROM users WHERE fingerprint = $1`, fingerprint)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query user"),
		}
		return nil, err
	}

	return
}

// UsersForSecret returns every user with a non-zero weight against secret,
// the candidate signer set the Verifier checks submitted signatures
// against (§4.3).
func (s *Store) UsersForSecret(secretId int) (users []*User, err error) {
	users = []*User{}

	err = s.db.Select(&users, `
		SELECT users.* FROM users
		INNER JOIN user_secret_weights ON user_secret_weights.user_id = users.id
		WHERE user_secret_weights.secret_id = $1 AND user_secret_weights.weight > 0
	`, secretId)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query secret's users"),
		}
		return nil, err
	}

	return
}

// InsertUser inserts a new user row, rejecting a duplicate fingerprint
// with errortypes.ExistsError (§4.2).
func (s *Store) InsertUser(fingerprint string, cert []byte) (err error) {
	existing, err := s.FindUser(fingerprint)
	if err != nil {
		return
	}
	if existing != nil {
		err = &errortypes.ExistsError{
			DropboxError: errors.Newf("store: User %s already exists", fingerprint),
		}
		return
	}

	_, err = s.db.Exec(
		`INSERT INTO users (fingerprint, cert) VALUES ($1, $2)`,
		fingerprint, cert,
	)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to insert user"),
		}
		return
	}

	return
}

// InsertUserTx is InsertUser's transactional form, used by the Dispatcher
// so the AddUser audit row commits atomically with the Keyring write
// (§4.6). AddUser is a local, HSM-credential-authorized operation (§4.5)
// and is never reached over the network service surface.
func InsertUserTx(tx *sqlx.Tx, fingerprint string, cert []byte) (err error) {
	_, err = tx.Exec(
		`INSERT INTO users (fingerprint, cert) VALUES ($1, $2)`,
		fingerprint, cert,
	)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to insert user"),
		}
		return
	}

	return
}
