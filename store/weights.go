package store

import (
	"database/sql"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// GetWeight returns a user's weight against a secret; an absent row is
// weight 0, never an error (§3, §4.2).
func (s *Store) GetWeight(secretId, userId int) (weight int, err error) {
	err = s.db.Get(&weight,
		`SELECT weight FROM user_secret_weights WHERE secret_id = $1 AND user_id = $2`,
		secretId, userId,
	)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query weight"),
		}
		return 0, err
	}

	return
}

// SetWeightTx upserts a user's weight against a secret inside tx (§4.5,
// request kind Weight). Idempotent: setting the same weight twice leaves
// get_weight unchanged (§8).
func SetWeightTx(tx *sqlx.Tx, secretId, userId, weight int) (err error) {
	_, err = tx.Exec(`
		INSERT INTO user_secret_weights (secret_id, user_id, weight)
		VALUES ($1, $2, $3)
		ON CONFLICT (secret_id, user_id) DO UPDATE SET weight = EXCLUDED.weight
	`, secretId, userId, weight)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to upsert weight"),
		}
		return
	}

	return
}
