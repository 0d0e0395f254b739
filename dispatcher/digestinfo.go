package dispatcher

// sha256DigestInfoPrefix is the ASN.1 DER header PKCS#1 v1.5 signing
// prepends to a raw SHA-256 digest (RFC 8017 §9.2, Note 1) — the same
// bytes crypto/rsa.SignPKCS1v15 builds internally when given a non-zero
// crypto.Hash. The Gateway signs whatever octets it is handed verbatim
// (§4.1); building this prefix is the caller's job.
var sha256DigestInfoPrefix = []byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65,
	0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

// sha256DigestInfo wraps a 32-byte SHA-256 digest in the DigestInfo
// structure a PKCS#1 v1.5 signing primitive expects.
func sha256DigestInfo(digest []byte) []byte {
	out := make([]byte, 0, len(sha256DigestInfoPrefix)+len(digest))
	out = append(out, sha256DigestInfoPrefix...)
	out = append(out, digest...)
	return out
}
