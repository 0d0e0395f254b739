package hsm

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"sync"
)

// DevTransport is a reference Transport for tests and local development.
// It performs real PKCS#1 v1.5 signing over an in-process RSA key store
// and maintains a genuinely hash-chained log, so tests exercising the
// Audit Log's reconciliation logic (§4.6) see realistic behavior. It is
// not a substitute for a real device: nothing here claims to be
// tamper-resistant.
type DevTransport struct {
	mu       sync.Mutex
	sessions map[SessionID]bool
	nextSess SessionID
	keys     map[uint16]*rsa.PrivateKey
	nextKey  uint16
	log      []LogEntry
	systick  uint32
}

func NewDevTransport() *DevTransport {
	return &DevTransport{
		sessions: map[SessionID]bool{},
		keys:     map[uint16]*rsa.PrivateKey{},
		nextKey:  1,
	}
}

func (d *DevTransport) OpenSession(authkeyId uint16, password string) (SessionID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextSess++
	session := d.nextSess
	d.sessions[session] = true

	d.appendLog(0x04, 0, uint16(authkeyId), 0, 0)

	return session, nil
}

func (d *DevTransport) CloseSession(session SessionID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.sessions[session] {
		return ErrInvalidHandle
	}
	delete(d.sessions, session)

	d.appendLog(0x40, 0, 0, 0, 0)

	return nil
}

// ImportRSA parses a PKCS#1 DER-encoded RSA private key and assigns it
// the next free handle (§4.1).
func (d *DevTransport) ImportRSA(session SessionID, keyMaterial []byte) (handle uint16, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.sessions[session] {
		return 0, ErrInvalidHandle
	}

	key, err := x509.ParsePKCS1PrivateKey(keyMaterial)
	if err != nil {
		return 0, ErrTransport
	}

	handle = d.nextKey
	d.nextKey++
	d.keys[handle] = key

	d.appendLog(0x45, uint16(len(keyMaterial)), 0, handle, 0)

	return handle, nil
}

// SignPKCS1v15 signs a pre-built digestinfo. The caller (hsm.Gateway) is
// format-agnostic (§4.1); it is the Verifier/Dispatcher's job to build
// the correct to-be-signed bytes before calling Sign.
func (d *DevTransport) SignPKCS1v15(session SessionID, handle uint16, digest []byte) (signature []byte, err error) {
	d.mu.Lock()
	key, ok := d.keys[handle]
	sessOk := d.sessions[session]
	d.mu.Unlock()

	if !sessOk {
		return nil, ErrInvalidHandle
	}
	if !ok {
		return nil, ErrInvalidHandle
	}

	// digest here is already an ASN.1 DigestInfo (the Dispatcher wraps the
	// SHA-256 sum for PEM and PGP secrets alike); crypto/rsa's SignPKCS1v15 with hash=0 signs the
	// supplied bytes verbatim, which is what a real HSM's raw PKCS#1
	// sign primitive does too.
	signature, err = rsa.SignPKCS1v15(rand.Reader, key, crypto.Hash(0), digest)
	if err != nil {
		return nil, ErrTransport
	}

	d.mu.Lock()
	d.appendLog(0x47, uint16(len(digest)), 0, handle, 0)
	d.mu.Unlock()

	return signature, nil
}

func (d *DevTransport) FetchLog(session SessionID, sinceIndex uint16) (entries []LogEntry, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.sessions[session] {
		return nil, ErrInvalidHandle
	}

	entries = []LogEntry{}
	for _, e := range d.log {
		if e.Index > sinceIndex {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// appendLog must be called with d.mu held. It computes the same
// chained-hash shape spec §3 describes for real device log entries:
// a hash over this entry's fields and the previous entry's hash.
func (d *DevTransport) appendLog(command uint8, dataLength, sessionKey, targetKey, secondKey uint16) {
	d.systick++

	var prevHash []byte
	if len(d.log) > 0 {
		prevHash = d.log[len(d.log)-1].Hash
	}

	entry := LogEntry{
		Index:      uint16(len(d.log)) + 1,
		Command:    command,
		DataLength: dataLength,
		SessionKey: sessionKey,
		TargetKey:  targetKey,
		SecondKey:  secondKey,
		Result:     0,
		Systick:    d.systick,
	}
	entry.Hash = entryHash(entry, prevHash)

	d.log = append(d.log, entry)
}

func entryHash(e LogEntry, prevHash []byte) []byte {
	h := sha256.New()
	h.Write(prevHash)
	h.Write([]byte{e.Command, byte(e.DataLength >> 8), byte(e.DataLength)})
	h.Write([]byte{byte(e.SessionKey >> 8), byte(e.SessionKey), byte(e.TargetKey >> 8), byte(e.TargetKey)})
	h.Write([]byte{byte(e.SecondKey >> 8), byte(e.SecondKey), e.Result})
	sum := h.Sum(nil)
	return sum
}
