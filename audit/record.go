package audit

import (
	"time"

	"github.com/coreos/fero/store"
	"github.com/jmoiron/sqlx"
)

// Record mirrors the HSM log entries produced during a request and
// appends the request's audit row, all inside tx, so a management
// mutation (already written earlier in the same tx by the caller) commits
// atomically with its own audit trail (§4.6). A Dispatcher request that
// reaches its authorization decision — authorized, denied, or failed at
// the HSM — calls this exactly once. Requests rejected before that
// decision (unknown secret or user, duplicate name, payload mismatch)
// and errors reading the store or the device log return without an
// audit row.
func Record(
	tx *sqlx.Tx,
	requestType store.RequestType,
	result store.RequestResult,
	hsmIndexStart, hsmIndexEnd int,
	identification []byte,
	hsmLogs []*store.HsmLog,
	timestamp time.Time,
) (id int, err error) {
	if len(hsmLogs) > 0 {
		err = store.InsertHsmLogsTx(tx, hsmLogs)
		if err != nil {
			return
		}
	}

	parentHash, err := store.LastFeroLogHashTx(tx)
	if err != nil {
		return
	}

	row := &store.FeroLog{
		RequestType:    requestType,
		Timestamp:      timestamp,
		Result:         result,
		HsmIndexStart:  hsmIndexStart,
		HsmIndexEnd:    hsmIndexEnd,
		Identification: identification,
	}
	row.Hash = RowHash(parentHash, requestType, timestamp, result, identification, rowPayload(hsmLogs))

	id, err = store.InsertFeroLogTx(tx, row)
	return
}

// rowPayload folds the mirrored HSM log hashes into the bytes RowHash
// commits to, so the audit row's hash is bound to exactly the HSM
// activity it brackets, not just to the request's own fields.
func rowPayload(hsmLogs []*store.HsmLog) []byte {
	payload := make([]byte, 0, len(hsmLogs)*32)
	for _, l := range hsmLogs {
		payload = append(payload, l.Hash...)
	}
	return payload
}
