package audit

import (
	"time"

	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/store"
	"github.com/dropbox/godropbox/errors"
	"github.com/jmoiron/sqlx"
)

// Reconcile runs once at startup (§4.6): it fetches HSM log entries
// strictly greater than the highest stored hsm_index and, if any exist,
// mirrors them and writes a synthetic `orphan` fero_logs row bracketing
// exactly that gap — result=failure, since by construction nothing
// audited them the first time (scenario 6, §8: "HSM performs a sign
// call; server crashes before writing fero_logs").
//
// The entries must be index-contiguous with no gap from the last stored
// index; a gap means the mirror and the device's counter have diverged
// in a way this server cannot explain, and reconciliation fails loudly
// (§6, exit code 3) rather than silently accepting a broken chain.
func Reconcile(gw *hsm.Gateway, st *store.Store) (err error) {
	lastIndex, err := st.LastHsmIndex()
	if err != nil {
		return
	}

	entries, err := gw.FetchLog(uint16(lastIndex))
	if err != nil {
		return
	}
	if len(entries) == 0 {
		return
	}

	expected := uint16(lastIndex) + 1
	for _, e := range entries {
		if e.Index != expected {
			err = &errortypes.InternalError{
				DropboxError: errors.Newf(
					"audit: HSM log chain broken: expected index %d, got %d",
					expected, e.Index,
				),
			}
			return
		}
		expected++
	}

	hsmLogs := make([]*store.HsmLog, len(entries))
	for i, e := range entries {
		hsmLogs[i] = &store.HsmLog{
			HsmIndex:   int(e.Index),
			Command:    int(e.Command),
			DataLength: int(e.DataLength),
			SessionKey: int(e.SessionKey),
			TargetKey:  int(e.TargetKey),
			SecondKey:  int(e.SecondKey),
			Result:     int(e.Result),
			Systick:    int(e.Systick),
			Hash:       e.Hash,
		}
	}

	newIndex := int(entries[len(entries)-1].Index)
	requestType := orphanRequestType(entries[0].Command)

	return st.WithTx(func(tx *sqlx.Tx) error {
		_, txErr := Record(
			tx,
			requestType,
			store.ResultFailure,
			lastIndex, newIndex,
			nil,
			hsmLogs,
			time.Now().UTC(),
		)
		return txErr
	})
}

// orphanRequestType guesses the audited request kind from the device
// command code of the first orphaned entry, falling back to Sign — the
// only operation that calls the HSM without also writing its audit row
// in the same step where a crash could intervene (§8, scenario 6).
func orphanRequestType(command uint8) store.RequestType {
	switch command {
	case 0x47: // SignPkcs1, per the YubiHSM2 command set fero's HSM speaks.
		return store.RequestSign
	case 0x45: // PutAsymmetricKey
		return store.RequestAddSecret
	default:
		return store.RequestSign
	}
}
