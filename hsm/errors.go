package hsm

import (
	"errors"
)

// Sentinel failure modes a Transport implementation returns (§4.1). Each
// is reported distinctly so the Dispatcher can decide retry policy (§7)
// instead of treating every HSM failure alike.
var (
	ErrTransport    = errors.New("hsm: transport error")
	ErrBusy         = errors.New("hsm: device busy")
	ErrAuth         = errors.New("hsm: authentication failure")
	ErrInvalidHandle = errors.New("hsm: invalid handle")
	ErrLogExhausted = errors.New("hsm: device log exhausted")
)

// IsTransient reports whether err is a failure mode worth the
// retry-once policy (§4.5): a transport hiccup or a momentarily busy
// device, as opposed to a failure retrying can't fix (bad credentials, a
// handle that no longer exists, an exhausted log).
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrBusy)
}
