package audit

import (
	"testing"
	"time"

	"github.com/coreos/fero/store"
	"github.com/stretchr/testify/assert"
)

var testParentHash = make([]byte, 32)

func TestRowHash_Deterministic(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := RowHash(testParentHash, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("payload"))
	b := RowHash(testParentHash, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("payload"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestRowHash_SensitiveToEveryField(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := RowHash(testParentHash, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("payload"))

	variants := [][]byte{
		RowHash(testParentHash, store.RequestThreshold, ts, store.ResultSuccess, []byte("ident"), []byte("payload")),
		RowHash(testParentHash, store.RequestSign, ts.Add(time.Second), store.ResultSuccess, []byte("ident"), []byte("payload")),
		RowHash(testParentHash, store.RequestSign, ts, store.ResultFailure, []byte("ident"), []byte("payload")),
		RowHash(testParentHash, store.RequestSign, ts, store.ResultSuccess, []byte("other"), []byte("payload")),
		RowHash(testParentHash, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("other")),
	}

	for i, v := range variants {
		assert.NotEqualf(t, base, v, "variant %d collided with base hash", i)
	}
}

func TestRowHash_NilIdentificationAndPayload(t *testing.T) {
	ts := time.Now().UTC()
	h := RowHash(testParentHash, store.RequestAddUser, ts, store.ResultSuccess, nil, nil)
	assert.Len(t, h, 32)
}

func TestRowHash_SensitiveToParentHash(t *testing.T) {
	ts := time.Now().UTC()
	a := RowHash(testParentHash, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("payload"))
	b := RowHash(make([]byte, 32), store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("payload"))

	otherParent := append([]byte(nil), testParentHash...)
	otherParent[0] ^= 0xff
	c := RowHash(otherParent, store.RequestSign, ts, store.ResultSuccess, []byte("ident"), []byte("payload"))

	assert.Equal(t, a, b, "identical all-zero parents must produce identical hashes")
	assert.NotEqual(t, a, c, "a different parent hash must change the row hash")
}
