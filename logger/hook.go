package logger

import (
	"github.com/Sirupsen/logrus"
)

// logHook copies every fired entry onto the buffered channel the sender
// fan-out goroutine drains, decoupling logrus's synchronous call site from
// whatever a sender does with the entry.
type logHook struct{}

func (h *logHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *logHook) Fire(entry *logrus.Entry) error {
	cp := *entry
	select {
	case buffer <- &cp:
	default:
		// Sender fan-out is behind; drop rather than block the caller.
	}
	return nil
}

// sender receives every buffered entry after Init has started the fan-out
// goroutine. Implementations must not block for long.
type sender interface {
	Init()
	Parse(entry *logrus.Entry)
}

type stderrSender struct{}

func (s *stderrSender) Init() {}

func (s *stderrSender) Parse(entry *logrus.Entry) {
	// The formatter already writes entry.Message to stderr via logrus's
	// own output; this sender exists so additional senders (a metrics
	// counter, an audit-adjacent syslog forwarder) can be added without
	// touching Init.
}
