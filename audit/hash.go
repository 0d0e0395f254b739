// Package audit is the Audit Log (§4.6): append-only server log rows
// bracketing the HSM log interval each request touched, cross-linked by
// monotonic index, plus the startup reconciliation that keeps the HSM's
// internal counter and the server's mirror gap-free.
package audit

import (
	"crypto/sha256"
	"time"

	"github.com/coreos/fero/store"
)

// RowHash computes the SHA-256 hash a fero_logs row commits to:
// (parent_hash || request_type || timestamp || result || identification || payload)
// (§4.6). parentHash is the previous row's stored hash, folding every row
// into a single chain rooted at Bootstrap's genesis row (SPEC_FULL.md,
// "Root log entry / hash chain genesis") so deleting or reordering any row
// invalidates every hash after it. Recomputing it from a stored row's
// fields plus its parent's hash must reproduce the stored value (§8).
func RowHash(parentHash []byte, requestType store.RequestType, timestamp time.Time, result store.RequestResult, identification, payload []byte) []byte {
	h := sha256.New()
	h.Write(parentHash)
	h.Write([]byte(requestType))
	h.Write([]byte(timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(result))
	h.Write(identification)
	h.Write(payload)
	return h.Sum(nil)
}
