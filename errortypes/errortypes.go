// Package errortypes wraps github.com/dropbox/godropbox/errors.DropboxError
// in small named types so callers can classify a failure with a type switch
// instead of matching on message text.
package errortypes

import (
	"github.com/dropbox/godropbox/errors"
)

// ReadError indicates a failure to read configuration or persisted state.
type ReadError struct {
	errors.DropboxError
}

// WriteError indicates a failure to persist configuration or state.
type WriteError struct {
	errors.DropboxError
}

// ParseError indicates malformed input: a payload, a certificate, a
// signature packet, or a management-operation encoding.
type ParseError struct {
	errors.DropboxError
}

// NotFoundError indicates a lookup miss against the Keyring (unknown
// secret name, unknown user fingerprint) or the audit log.
type NotFoundError struct {
	errors.DropboxError
}

// ExistsError indicates a duplicate insert: a fingerprint, secret name, or
// HSM handle already present in the Keyring.
type ExistsError struct {
	errors.DropboxError
}

// AuthenticationError indicates a request failed to prove possession of a
// credential (the HSM application password, a bastion token).
type AuthenticationError struct {
	errors.DropboxError
}

// AuthorizationError indicates a request's signatures did not clear the
// secret's quorum threshold. Have and Need carry the computed total and
// the threshold it fell short of, surfaced to the caller as a diagnostic
// (§7) so they can collect more signatures and retry.
type AuthorizationError struct {
	errors.DropboxError
	Have int
	Need int
}

// PayloadMismatchError indicates the server's reconstructed canonical
// payload did not byte-match the payload the client submitted.
type PayloadMismatchError struct {
	errors.DropboxError
}

// HsmError indicates a transport, timeout, or device-reported failure
// talking to the HSM. Transient marks failure modes worth the
// retry-once policy (spec §4.5, §7): a transport hiccup or a busy
// device, as opposed to bad credentials or an exhausted log.
type HsmError struct {
	errors.DropboxError
	Transient bool
}

// InternalError indicates a failure that must not leak store-level detail
// to a network client.
type InternalError struct {
	errors.DropboxError
}
