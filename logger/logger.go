// Package logger wires logrus into a small buffered fan-out so a slow or
// blocked sender (a syslog socket, a file handle) never stalls the request
// path that emitted the log entry.
package logger

import (
	"os"
	"strings"

	"github.com/Sirupsen/logrus"
	"github.com/coreos/fero/constants"
)

var (
	buffer  = make(chan *logrus.Entry, 128)
	senders = []sender{}
)

func initSender() {
	for _, sndr := range senders {
		sndr.Init()
	}

	go func() {
		for {
			entry := <-buffer

			if constants.Interrupt {
				return
			}

			if strings.HasPrefix(entry.Message, "logger:") {
				continue
			}

			for _, sndr := range senders {
				sndr.Parse(entry)
			}
		}
	}()
}

// Init installs the logrus formatter and hook and starts the async sender
// fan-out. SetLevel can be called afterward once config.Config is loaded.
func Init() {
	senders = []sender{&stderrSender{}}

	logrus.SetFormatter(&formatter{})
	logrus.AddHook(&logHook{})
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.InfoLevel)

	initSender()
}

// SetLevel lets main override the level once config.Config is loaded.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return
	}
	logrus.SetLevel(level)
}
