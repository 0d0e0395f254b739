package store

import (
	"time"
)

// User is a long-lived PGP principal (§3). Immutable after InsertUser.
type User struct {
	Id          int    `db:"id"`
	Fingerprint string `db:"fingerprint"`
	Cert        []byte `db:"cert"`
}

// KeyType distinguishes the two signature formats a Secret can produce
// (§3, §4.5).
type KeyType string

const (
	KeyTypePGP KeyType = "pgp"
	KeyTypePEM KeyType = "pem"
)

// Secret is a private RSA key held by the HSM, addressed by name (§3).
// PgpSubkeyId and PgpPublicKey are set only for KeyTypePGP secrets: the
// server never generates the PGP identity itself, only the certificate
// the admin supplied when the private half went into the HSM.
type Secret struct {
	Id           int     `db:"id"`
	Name         string  `db:"name"`
	KeyId        *int64  `db:"key_id"`
	KeyType      KeyType `db:"key_type"`
	PgpSubkeyId  []byte  `db:"pgp_subkey_id"`
	PgpPublicKey []byte  `db:"pgp_public_key"`
	Threshold    int     `db:"threshold"`
	HsmId        int     `db:"hsm_id"`
}

// Weight is a (secret, user) -> integer contribution (§3).
type Weight struct {
	Id       int `db:"id"`
	SecretId int `db:"secret_id"`
	UserId   int `db:"user_id"`
	Weight   int `db:"weight"`
}

// HsmLog mirrors one entry from the device's own monotonic log (§3).
type HsmLog struct {
	Id         int    `db:"id"`
	HsmIndex   int    `db:"hsm_index"`
	Command    int    `db:"command"`
	DataLength int    `db:"data_length"`
	SessionKey int    `db:"session_key"`
	TargetKey  int    `db:"target_key"`
	SecondKey  int    `db:"second_key"`
	Result     int    `db:"result"`
	Systick    int    `db:"systick"`
	Hash       []byte `db:"hash"`
}

// RequestType enumerates the five request kinds from §4.5.
type RequestType string

const (
	RequestSign      RequestType = "sign"
	RequestThreshold RequestType = "threshold"
	RequestWeight    RequestType = "weight"
	RequestAddSecret RequestType = "add_secret"
	RequestAddUser   RequestType = "add_user"
)

// RequestResult is either end state an audit row can record (§3).
type RequestResult string

const (
	ResultSuccess RequestResult = "success"
	ResultFailure RequestResult = "failure"
)

// FeroLog is one append-only audit row (§3, §4.6).
type FeroLog struct {
	Id             int           `db:"id"`
	RequestType    RequestType   `db:"request_type"`
	Timestamp      time.Time     `db:"timestamp"`
	Result         RequestResult `db:"result"`
	HsmIndexStart  int           `db:"hsm_index_start"`
	HsmIndexEnd    int           `db:"hsm_index_end"`
	Identification []byte        `db:"identification"`
	Hash           []byte        `db:"hash"`
}
