package dispatcher

import (
	"time"

	"github.com/coreos/fero/audit"
	"github.com/coreos/fero/authz"
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/payload"
	"github.com/coreos/fero/sigverify"
	"github.com/coreos/fero/store"
	dropboxerrors "github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// Weight executes the Weight request kind (§4.5): a quorum of the
// secret's current signers authorizes a new weight for some user
// against that secret. Like Threshold, it never touches the HSM.
func (d *Dispatcher) Weight(secretName, userFingerprint string, newWeight int32, requestPayload []byte, signatures [][]byte) (err error) {
	d.gw.Lock()
	defer d.gw.Unlock()

	secret, err := d.keyring.FindSecret(secretName)
	if err != nil {
		return
	}
	if secret == nil {
		err = &errortypes.NotFoundError{
			DropboxError: dropboxerrors.Newf("dispatcher: Unknown secret %s", secretName),
		}
		return
	}

	target, err := d.keyring.FindUser(userFingerprint)
	if err != nil {
		return
	}
	if target == nil {
		err = &errortypes.NotFoundError{
			DropboxError: dropboxerrors.Newf("dispatcher: Unknown user %s", userFingerprint),
		}
		return
	}

	expected := payload.Weight(secretName, userFingerprint, newWeight)
	if err = payload.CheckMatch(expected, requestPayload); err != nil {
		return
	}

	candidates, err := d.keyring.CandidatesForSecret(secret.Id)
	if err != nil {
		return
	}

	verified, _ := sigverify.Verify(requestPayload, signatures, candidates)

	decision, err := authz.Authorize(d.keyring, secret, verified)
	if err != nil {
		return
	}

	ident := identification(secretName, decision.Contributors)

	if !decision.Authorized {
		err = &errortypes.AuthorizationError{
			DropboxError: dropboxerrors.Newf(
				"dispatcher: %s has %d of %d required", secretName, decision.Total, decision.Threshold,
			),
			Have: decision.Total,
			Need: decision.Threshold,
		}
		if auditErr := d.auditNoHsm(store.RequestWeight, store.ResultFailure, ident); auditErr != nil {
			return auditErr
		}
		return
	}

	index, err := d.store.LastHsmIndex()
	if err != nil {
		return
	}

	return d.store.WithTx(func(tx *sqlx.Tx) error {
		if txErr := store.SetWeightTx(tx, secret.Id, target.Id, int(newWeight)); txErr != nil {
			return txErr
		}
		_, txErr := audit.Record(tx, store.RequestWeight, store.ResultSuccess, index, index, ident, nil, time.Now().UTC())
		return txErr
	})
}
