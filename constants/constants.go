// Package constants holds process-wide paths and flags shared by every
// other package. It intentionally carries no logic.
package constants

import (
	"time"
)

var (
	// ConfPath is the location of the server's JSON configuration file.
	ConfPath = "/etc/fero/fero.conf"

	// Interrupt is set once shutdown has begun so background goroutines can
	// exit their loops instead of retrying.
	Interrupt = false
)

const (
	// DefaultListenAddress is used when the config file omits it.
	DefaultListenAddress = "127.0.0.1:5115"

	// DefaultHsmAuthkeyId matches the application authkey object id created
	// by the provisioning bootstrap.
	DefaultHsmAuthkeyId = uint16(3)

	// DefaultHsmTimeout is not applied by any code in this module: HSM
	// transport calls run without a deadline.
	DefaultHsmTimeout = 5 * time.Second

	// MinSignatureHashBits is the acceptable floor for a PGP signature's
	// hash algorithm; MD5 and SHA-1 fall below it (§4.3).
	MinSignatureHashBits = 256
)
