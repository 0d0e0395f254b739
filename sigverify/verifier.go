// Package sigverify is the Signature Verifier (§4.3): given a payload and
// a set of detached, binary (non-armored) PGP signatures, it returns the
// set of distinct user fingerprints whose signature validly covers the
// payload under a key present in the Keyring.
//
// It is built on github.com/ProtonMail/go-crypto/openpgp, the maintained
// fork of the archived golang.org/x/crypto/openpgp and the only Go
// ecosystem library that speaks binary OpenPGP signature packets, subkey
// binding, and per-signature hash-algorithm introspection end to end.
package sigverify

import (
	"bytes"
	"crypto"
	"encoding/hex"
	"fmt"

	"github.com/ProtonMail/go-crypto/openpgp"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// Candidate is the minimal shape the Verifier needs from a Keyring row:
// a fingerprint and the binary certificate bytes to build an
// openpgp.EntityList from.
type Candidate struct {
	Fingerprint string
	Cert        []byte
}

// minAcceptableHash enforces §4.3's hash-algorithm floor: SHA-256 or
// stronger. MD5 and SHA-1 signatures are treated as invalid, not errors —
// they simply contribute no fingerprint.
var minAcceptableHash = map[crypto.Hash]bool{
	crypto.SHA256: true,
	crypto.SHA384: true,
	crypto.SHA512: true,
	crypto.SHA3_256: true,
	crypto.SHA3_512: true,
}

// Diagnostic describes one submitted signature blob that did not
// contribute a fingerprint, for logging — it never aborts the request
// (§4.3).
type Diagnostic struct {
	Index int
	Err   error
}

// Verify checks each of signatures against payload using the certificates
// in candidates, returning the set of distinct primary-key fingerprints
// that validly signed payload. Malformed packets, weak-hash signatures,
// and signatures that fail verification are non-fatal; they are reported
// in diagnostics but never stop processing of the remaining signatures.
// A signature from a key outside candidates contributes nothing and
// produces no diagnostic (§4.3).
func Verify(payload []byte, signatures [][]byte, candidates []Candidate) (verified map[string]bool, diagnostics []Diagnostic) {
	verified = map[string]bool{}

	keyring, byFingerprint := buildKeyring(candidates)

	for i, sigBytes := range signatures {
		fpr, err := verifyOne(payload, sigBytes, keyring, byFingerprint)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{Index: i, Err: err})
			continue
		}
		if fpr == "" {
			// Valid signature, but signer isn't in the Keyring — ignored,
			// never an error (§4.3).
			continue
		}

		verified[fpr] = true
	}

	return
}

func buildKeyring(candidates []Candidate) (openpgp.EntityList, map[string]string) {
	keyring := openpgp.EntityList{}
	byFingerprint := map[string]string{}

	for _, c := range candidates {
		entities, err := openpgp.ReadKeyRing(bytes.NewReader(c.Cert))
		if err != nil {
			continue
		}
		for _, e := range entities {
			fpr := hex.EncodeToString(e.PrimaryKey.Fingerprint[:])
			byFingerprint[fpr] = c.Fingerprint
			keyring = append(keyring, e)
		}
	}

	return keyring, byFingerprint
}

// verifyOne returns the Keyring fingerprint a single signature blob
// attributes to, or "" if the signature is valid but not in the Keyring.
// A non-nil error means the signature blob itself could not be verified
// (malformed packet, unacceptable hash algorithm, cryptographic failure).
func verifyOne(payload, sigBytes []byte, keyring openpgp.EntityList, byFingerprint map[string]string) (fingerprint string, err error) {
	pkt, err := packet.Read(bytes.NewReader(sigBytes))
	if err != nil {
		return "", fmt.Errorf("sigverify: malformed signature packet: %w", err)
	}

	sig, ok := pkt.(*packet.Signature)
	if !ok {
		return "", fmt.Errorf("sigverify: packet is not a signature")
	}

	if !minAcceptableHash[sig.Hash] {
		return "", fmt.Errorf("sigverify: signature hash algorithm %v is below the accepted floor", sig.Hash)
	}

	signer, err := openpgp.CheckDetachedSignature(keyring, bytes.NewReader(payload), bytes.NewReader(sigBytes), nil)
	if err == pgperrors.ErrUnknownIssuer {
		// No key in the Keyring issued this signature.
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sigverify: signature verification failed: %w", err)
	}
	if signer == nil {
		return "", fmt.Errorf("sigverify: no matching signer")
	}

	primaryFpr := hex.EncodeToString(signer.PrimaryKey.Fingerprint[:])

	fingerprint, inKeyring := byFingerprint[primaryFpr]
	if !inKeyring {
		// The signing (sub)key cross-certifies to a primary key that
		// isn't one of our candidates; see DESIGN.md's open question
		// decision (b). Attribute to nothing rather than guessing.
		return "", nil
	}

	return fingerprint, nil
}
