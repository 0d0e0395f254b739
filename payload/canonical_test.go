package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreshold_Deterministic(t *testing.T) {
	a := Threshold("prod-signing-key", 3)
	b := Threshold("prod-signing-key", 3)
	assert.Equal(t, a, b)
	assert.JSONEq(t, `{"op":"threshold","secret":"prod-signing-key","threshold":3}`, string(a))
}

func TestThreshold_FieldsVarySignal(t *testing.T) {
	a := Threshold("secret-a", 1)
	b := Threshold("secret-b", 1)
	assert.NotEqual(t, a, b)
}

func TestWeight_Deterministic(t *testing.T) {
	a := Weight("prod-signing-key", "aabbccdd", 5)
	assert.JSONEq(t, `{"op":"weight","secret":"prod-signing-key","user":"aabbccdd","weight":5}`, string(a))
}

func TestCheckMatch_Equal(t *testing.T) {
	expected := Threshold("s", 2)
	require.NoError(t, CheckMatch(expected, expected))
}

func TestCheckMatch_Mismatch(t *testing.T) {
	expected := Threshold("s", 2)
	submitted := Threshold("s", 3)
	err := CheckMatch(expected, submitted)
	require.Error(t, err)
}

func TestCheckMatch_LengthMismatch(t *testing.T) {
	err := CheckMatch([]byte("abc"), []byte("ab"))
	require.Error(t, err)
}
