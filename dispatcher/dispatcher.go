// Package dispatcher is the Operation Dispatcher (§4.5): the state
// machine that carries a request through Received -> Parsed -> Verified
// -> Authorized -> Executing -> Audited, wiring the Keyring, Signature
// Verifier, Authorization Engine, HSM Gateway, and Audit Log together.
// It holds no state of its own beyond references to its collaborators;
// the Gateway's lock is what actually serializes the critical section
// (§5).
package dispatcher

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/coreos/fero/audit"
	"github.com/coreos/fero/hsm"
	"github.com/coreos/fero/keyring"
	"github.com/coreos/fero/store"
	"github.com/jmoiron/sqlx"
)

type Dispatcher struct {
	gw      *hsm.Gateway
	store   *store.Store
	keyring *keyring.Keyring
}

func New(gw *hsm.Gateway, st *store.Store, kr *keyring.Keyring) *Dispatcher {
	return &Dispatcher{
		gw:      gw,
		store:   st,
		keyring: kr,
	}
}

// identification builds a fero_logs row's identification field: the
// addressed name and the fingerprints that contributed weight, sorted
// for determinism.
func identification(name string, contributors map[string]int) []byte {
	fprs := make([]string, 0, len(contributors))
	for fpr := range contributors {
		fprs = append(fprs, fpr)
	}
	sort.Strings(fprs)

	data, _ := json.Marshal(struct {
		Name    string   `json:"name"`
		Signers []string `json:"signers"`
	}{Name: name, Signers: fprs})

	return data
}

// auditNoHsm writes a terminal audit row for a request that never
// touched the HSM: a denied Sign, Threshold or Weight request (§4.5). hsm_index_start and hsm_index_end both
// equal the server's current mirror position, since nothing new was
// mirrored.
func (d *Dispatcher) auditNoHsm(requestType store.RequestType, result store.RequestResult, ident []byte) error {
	index, err := d.store.LastHsmIndex()
	if err != nil {
		return err
	}

	return d.store.WithTx(func(tx *sqlx.Tx) error {
		_, txErr := audit.Record(tx, requestType, result, index, index, ident, nil, time.Now().UTC())
		return txErr
	})
}

// toStoreLogs converts device log entries fetched from the Gateway into
// the store's row shape for mirroring (§4.6).
func toStoreLogs(entries []hsm.LogEntry) []*store.HsmLog {
	logs := make([]*store.HsmLog, len(entries))
	for i, e := range entries {
		logs[i] = &store.HsmLog{
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
	return logs
}
