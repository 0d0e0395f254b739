// Package payload builds and checks the canonical encodings management
// operations are signed over (§6): "deterministic UTF-8 text with fixed
// field order; the client and server must agree on this encoding
// bit-for-bit." The server never trusts the client's encoding — it
// reconstructs the expected payload from the request fields and requires
// byte-equality with what was submitted (§4.5, §6).
package payload

import (
	"crypto/subtle"
	"encoding/json"

	"github.com/coreos/fero/errortypes"
	"github.com/dropbox/godropbox/errors"
)

// thresholdOp's field order is fixed by its declaration; encoding/json
// marshals struct fields in that order, which is exactly the determinism
// the wire format needs: {"op":"threshold","secret":name,"threshold":N}.
type thresholdOp struct {
	Op        string `json:"op"`
	Secret    string `json:"secret"`
	Threshold int32  `json:"threshold"`
}

// weightOp mirrors {"op":"weight","secret":name,"user":fpr,"weight":N}.
type weightOp struct {
	Op     string `json:"op"`
	Secret string `json:"secret"`
	User   string `json:"user"`
	Weight int32  `json:"weight"`
}

// Threshold builds the canonical payload a SetSecretKeyThreshold request
// must be signed over.
func Threshold(secret string, threshold int32) []byte {
	// json.Marshal on a struct cannot fail for these field types.
	data, _ := json.Marshal(thresholdOp{Op: "threshold", Secret: secret, Threshold: threshold})
	return data
}

// Weight builds the canonical payload a SetUserKeyWeight request must be
// signed over.
func Weight(secret, user string, weight int32) []byte {
	data, _ := json.Marshal(weightOp{Op: "weight", Secret: secret, User: user, Weight: weight})
	return data
}

// CheckMatch requires submitted to byte-equal expected, compared in
// constant time with subtle.ConstantTimeCompare. A mismatch is
// PayloadMismatch (§7).
func CheckMatch(expected, submitted []byte) (err error) {
	if len(expected) != len(submitted) ||
		subtle.ConstantTimeCompare(expected, submitted) != 1 {

		err = &errortypes.PayloadMismatchError{
			DropboxError: errors.Newf(
				"payload: Submitted payload does not match reconstructed encoding",
			),
		}
		return
	}

	return
}
