// Package hsm is the HSM Gateway (§4.1): a thin, format-agnostic
// capability layer over whatever device sits behind Transport. It never
// parses PGP; callers that want a PGP signature build the "to-be-signed"
// hash-subpacket preamble themselves and hand the resulting octets to
// Sign.
//
// The vendor driver surface is explicitly out of scope (spec §1); this
// package only defines the boundary (Transport) a real driver would
// satisfy, following pritunl-hsm's yubikey package's shape (a package
// singleton wrapping a device SDK) generalized away from any one SDK.
package hsm

import (
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/utils"
	"github.com/dropbox/godropbox/errors"
)

// LogEntry mirrors one record from the device's own monotonic log (§3):
// index, command code, input length, session/key/target/second-key
// identifiers, result code, device systick, and the device-computed hash
// chaining it to the previous entry.
type LogEntry struct {
	Index      uint16
	Command    uint8
	DataLength uint16
	SessionKey uint16
	TargetKey  uint16
	SecondKey  uint16
	Result     uint8
	Systick    uint32
	Hash       []byte
}

// SessionID identifies an open application-credential session with the
// device. It is opaque to everything above Transport.
type SessionID uint32

// Transport is the opaque HSM vendor driver surface (§6): "the core must
// not assume any particular transport." A real implementation speaks
// whatever binary protocol the attached device uses; this package never
// inspects it.
type Transport interface {
	OpenSession(authkeyId uint16, password string) (SessionID, error)
	CloseSession(session SessionID) error
	ImportRSA(session SessionID, keyMaterial []byte) (handle uint16, err error)
	SignPKCS1v15(session SessionID, handle uint16, digest []byte) (signature []byte, err error)
	FetchLog(session SessionID, sinceIndex uint16) ([]LogEntry, error)
}

// Gateway is the process-singleton HSM session: opened explicitly at
// startup, closed
// explicitly at shutdown, and passed through the Dispatcher's
// construction rather than reached via a package global.
type Gateway struct {
	transport Transport
	session   SessionID
	lock      *utils.MultiLock
}

const sessionLockName = "hsm-session"

// Open establishes the application-credential session the Gateway will
// use for every subsequent call.
func Open(transport Transport, authkeyId uint16, password string) (g *Gateway, err error) {
	session, err := transport.OpenSession(authkeyId, password)
	if err != nil {
		err = classify(err, "hsm: Failed to open session")
		return
	}

	g = &Gateway{
		transport: transport,
		session:   session,
		lock:      utils.NewMultiLock(),
	}

	return
}

func (g *Gateway) Close() (err error) {
	err = g.transport.CloseSession(g.session)
	if err != nil {
		err = classify(err, "hsm: Failed to close session")
		return
	}

	return
}

// Lock and Unlock bound the Dispatcher's exclusive critical section (§5):
// the interval from capturing hsm_index_start through committing the
// audit row. The HSM is inherently single-threaded per session, so this
// is the one lock that must be held across an HSM call and the log
// mirror that follows it.
func (g *Gateway) Lock() {
	g.lock.Lock(sessionLockName)
}

func (g *Gateway) Unlock() {
	g.lock.Unlock(sessionLockName)
}

// ImportRSA imports an RSA private key and returns its device-assigned
// handle (§4.1).
func (g *Gateway) ImportRSA(keyMaterial []byte) (handle uint16, err error) {
	handle, err = g.transport.ImportRSA(g.session, keyMaterial)
	if err != nil {
		err = classify(err, "hsm: Failed to import RSA key")
		return
	}

	return
}

// Sign produces a PKCS#1 v1.5 signature over octets using the key at
// handle (§4.1). It makes exactly one attempt; the Dispatcher owns the
// retry-once policy (§4.5, §7).
func (g *Gateway) Sign(handle uint16, octets []byte) (signature []byte, err error) {
	signature, err = g.transport.SignPKCS1v15(g.session, handle, octets)
	if err != nil {
		err = classify(err, "hsm: Failed to sign")
		return
	}

	return
}

// FetchLog returns device log entries with index > sinceIndex, in order
// (§4.1).
func (g *Gateway) FetchLog(sinceIndex uint16) (entries []LogEntry, err error) {
	entries, err = g.transport.FetchLog(g.session, sinceIndex)
	if err != nil {
		err = classify(err, "hsm: Failed to fetch log")
		return
	}

	return
}

func classify(err error, message string) error {
	return &errortypes.HsmError{
		DropboxError: errors.Wrap(err, message),
		Transient:    IsTransient(err),
	}
}
