package logger

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/Sirupsen/logrus"
)

// formatter renders a logrus.Entry as a single line of the form
// "time level message key=value ...", matching the plain-text shape most
// small Go daemons in this codebase's lineage emit to stderr.
type formatter struct{}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "%s [%s] %s",
		entry.Time.Format("2006-01-02T15:04:05.000Z07:00"),
		levelString(entry.Level),
		entry.Message,
	)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(buf, " %s=%v", k, entry.Data[k])
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

func levelString(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel:
		return "DEBU"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.ErrorLevel:
		return "ERRO"
	case logrus.FatalLevel:
		return "FATA"
	case logrus.PanicLevel:
		return "PANI"
	default:
		return "UNKN"
	}
}
