// Package store is the persistence boundary named in spec §1 as an
// external collaborator ("the on-disk relational store, treated as an
// abstract persistence interface"). It implements that interface over
// Postgres via sqlx/lib-pq (grounded on jasoncolburne-better-auth's HSM and
// auth services, which persist through exactly this pair), following the
// literal schema in §6.
package store

import (
	"time"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

// Store is a single-writer, multi-reader handle onto the persisted state
// layout. Writes that must be atomic with an HSM-log mirror or a Keyring
// mutation go through WithTx; the Dispatcher's exclusive lock (§5) is what
// actually serializes writers, not anything in this package.
type Store struct {
	db *sqlx.DB
}

func Open(dataSourceName string) (s *Store, err error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		err = &errortypes.ReadError{
			DropboxError: errors.Wrap(err, "store: Failed to connect to database"),
		}
		return
	}

	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(time.Hour)

	s = New(db)

	return
}

// New wraps an already-open *sqlx.DB. Open is the production path; tests
// construct a Store directly over a sqlmock-backed *sqlx.DB instead of
// dialing a real database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the §6 schema if it does not already exist. It is safe
// to call on every startup.
func (s *Store) Migrate() (err error) {
	_, err = s.db.Exec(schemaDDL)
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to apply schema"),
		}
		return
	}

	return
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	fingerprint VARCHAR(40) UNIQUE NOT NULL,
	cert BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS secrets (
	id SERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	key_id BIGINT UNIQUE,
	key_type TEXT NOT NULL DEFAULT 'pem',
	pgp_subkey_id BYTEA,
	pgp_public_key BYTEA,
	threshold INTEGER NOT NULL DEFAULT 0,
	hsm_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_secret_weights (
	id SERIAL PRIMARY KEY,
	secret_id INTEGER NOT NULL REFERENCES secrets(id),
	user_id INTEGER NOT NULL REFERENCES users(id),
	weight INTEGER NOT NULL DEFAULT 0,
	UNIQUE (secret_id, user_id)
);

CREATE TABLE IF NOT EXISTS hsm_logs (
	id SERIAL PRIMARY KEY,
	hsm_index INTEGER UNIQUE NOT NULL,
	command INTEGER NOT NULL,
	data_length INTEGER NOT NULL,
	session_key INTEGER NOT NULL,
	target_key INTEGER NOT NULL,
	second_key INTEGER NOT NULL,
	result INTEGER NOT NULL,
	systick INTEGER NOT NULL,
	hash BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS fero_logs (
	id SERIAL PRIMARY KEY,
	request_type TEXT NOT NULL CHECK (request_type IN
		('sign', 'threshold', 'weight', 'add_secret', 'add_user')),
	timestamp TIMESTAMPTZ NOT NULL,
	result TEXT NOT NULL CHECK (result IN ('success', 'failure')),
	hsm_index_start INTEGER NOT NULL,
	hsm_index_end INTEGER NOT NULL,
	identification BYTEA,
	hash BYTEA NOT NULL
);
`

// WithTx runs fn inside a single transaction and commits iff fn returns a
// nil error. The Dispatcher uses this to make a Keyring mutation, its HSM
// log mirror, and its audit row durable together (§4.6).
func (s *Store) WithTx(fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.Beginx()
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to begin transaction"),
		}
		return
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	err = fn(tx)
	if err != nil {
		tx.Rollback()
		return
	}

	err = tx.Commit()
	if err != nil {
		err = &errortypes.WriteError{
			DropboxError: errors.Wrap(err, "store: Failed to commit transaction"),
		}
		return
	}

	return
}
