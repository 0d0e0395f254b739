package store

import (
	"database/sql"
	"time"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// rootRequestType marks the zero-value hash-chain anchor Bootstrap
// inserts once at first startup, adapted from the original fero-server's
// `NewFeroLog::default()` root entry (SPEC_FULL.md, "Root log entry").
const rootRequestType RequestType = RequestAddUser

// Bootstrap inserts the hash-chain root row iff the fero_logs table is
// still empty, so every real audit row has a well-defined parent hash.
func (s *Store) Bootstrap() (err error) {
	last, err := s.LastFeroLog()
	if err != nil {
		return
	}
	if last != nil {
		return
	}

	_, err = s.db.Exec(`
		INSERT INTO fero_logs
			(request_type, timestamp, result, hsm_index_start, hsm_index_end, identification, hash)
		VALUES ($1, $2, $3, 0, 0, NULL, $4)
	`, rootRequestType, time.Now().UTC(), ResultSuccess, make([]byte, 32))
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to insert root log entry"),
		}
		return
	}

	return
}

// LastFeroLog returns the most recently committed audit row, the parent
// whose hash the next row chains to (§4.6).
func (s *Store) LastFeroLog() (log *FeroLog, err error) {
	log = &FeroLog{}

	err = s.db.Get(log, `SELECT * FROM fero_logs ORDER BY id DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query last audit row"),
		}
		return nil, err
	}

	return
}

// FeroLogsSince returns audit rows with id > sinceId, in order (the
// supplemented GetLogs RPC, SPEC_FULL.md).
func (s *Store) FeroLogsSince(sinceId int) (logs []*FeroLog, err error) {
	logs = []*FeroLog{}

	err = s.db.Select(&logs, `SELECT * FROM fero_logs WHERE id > $1 ORDER BY id ASC`, sinceId)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query audit rows"),
		}
		return nil, err
	}

	return
}

// LastFeroLogHashTx returns the hash of the most recently committed audit
// row as seen inside tx, the parent hash the new row chains to (§4.6).
// Bootstrap guarantees this never returns sql.ErrNoRows in production: the
// root row always exists by the time a real request reaches Record.
func LastFeroLogHashTx(tx *sqlx.Tx) (hash []byte, err error) {
	err = tx.Get(&hash, `SELECT hash FROM fero_logs ORDER BY id DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to query parent audit hash"),
		}
		return nil, err
	}

	return
}

// InsertFeroLogTx appends one audit row inside tx (§4.6). Each
// audit.Record call writes exactly one row this way.
func InsertFeroLogTx(tx *sqlx.Tx, log *FeroLog) (id int, err error) {
	err = tx.Get(&id, `
		INSERT INTO fero_logs
			(request_type, timestamp, result, hsm_index_start, hsm_index_end, identification, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, log.RequestType, log.Timestamp, log.Result, log.HsmIndexStart, log.HsmIndexEnd,
		log.Identification, log.Hash)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to insert audit row"),
		}
		return
	}

	return
}
