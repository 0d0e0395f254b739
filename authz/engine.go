// Package authz is the Authorization Engine (§4.4): given a secret and a
// verified fingerprint set, it computes the summed weight and decides
// authorize/deny against the secret's current threshold.
package authz

import (
	"github.com/coreos/fero/keyring"
	"github.com/coreos/fero/store"
)

// Decision is the Engine's output: the summed weight, whether it clears
// the secret's threshold, and the full set of fingerprints that
// contributed (for the audit row's identification and for diagnostics).
type Decision struct {
	Total        int
	Threshold    int
	Authorized   bool
	Contributors map[string]int
}

// Authorize implements §4.4's rule exactly:
//
//	total := Σ get_weight(S, u)  for u ∈ F
//	authorized := (total ≥ S.threshold) ∧ (|F| ≥ 1)
//
// The |F| ≥ 1 clause prevents a zero-threshold secret from being used
// without any signatory (§4.4); ties at exactly the threshold authorize.
func Authorize(k *keyring.Keyring, secret *store.Secret, verified map[string]bool) (decision Decision, err error) {
	decision = Decision{
		Threshold:    secret.Threshold,
		Contributors: map[string]int{},
	}

	for fpr := range verified {
		user, ferr := k.FindUser(fpr)
		if ferr != nil {
			err = ferr
			return
		}
		if user == nil {
			// Verifier only returns fingerprints present in the Keyring
			// (§4.3); a miss here would indicate a race with a concurrent
			// insert, impossible under the Dispatcher's serialization (§5).
			continue
		}

		weight, werr := k.GetWeight(secret.Id, user.Id)
		if werr != nil {
			err = werr
			return
		}

		decision.Contributors[fpr] = weight
		decision.Total += weight
	}

	decision.Authorized = decision.Total >= secret.Threshold && len(verified) >= 1

	return
}
