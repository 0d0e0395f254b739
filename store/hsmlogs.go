package store

import (
	"database/sql"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// LastHsmIndex returns the highest mirrored HSM log index, or 0 if none
// have been mirrored yet (§4.6).
func (s *Store) LastHsmIndex() (index int, err error) {
	err = s.db.Get(&index, `SELECT COALESCE(MAX(hsm_index), 0) FROM hsm_logs`)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query last HSM index"),
		}
		return 0, err
	}

	return
}

// HsmLogsSince returns mirrored HSM log entries with index > sinceIndex,
// in order (the supplemented GetLogs RPC, SPEC_FULL.md).
func (s *Store) HsmLogsSince(sinceIndex int) (logs []*HsmLog, err error) {
	logs = []*HsmLog{}

	err = s.db.Select(&logs,
		`SELECT * FROM hsm_logs WHERE hsm_index > $1 ORDER BY hsm_index ASC`,
		sinceIndex,
	)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query HSM logs"),
		}
		return nil, err
	}

	return
}

// HsmLogByIndex looks a single mirrored entry up by device index.
// Startup reconciliation does not call it.
func (s *Store) HsmLogByIndex(index int) (log *HsmLog, err error) {
	log = &HsmLog{}

	err = s.db.Get(log, `SELECT * FROM hsm_logs WHERE hsm_index = $1`, index)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query HSM log entry"),
		}
		return nil, err
	}

	return
}

// InsertHsmLogsTx mirrors device log entries into durable storage inside
// tx, so the mirror commits atomically with the fero_logs row that
// brackets it (§4.6).
func InsertHsmLogsTx(tx *sqlx.Tx, logs []*HsmLog) (err error) {
	for _, log := range logs {
		_, err = tx.Exec(`
			INSERT INTO hsm_logs
				(hsm_index, command, data_length, session_key, target_key, second_key, result, systick, hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (hsm_index) DO NOTHING
		`, log.HsmIndex, log.Command, log.DataLength, log.SessionKey,
			log.TargetKey, log.SecondKey, log.Result, log.Systick, log.Hash)
		if err != nil {
			err = &errortypes.WriteError{
				DropboxError: errors.Wrap(err, "store: Failed to insert HSM log entry"),
			}
			return
		}
	}

	return
}
