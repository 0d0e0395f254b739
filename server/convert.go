package server

import (
	"github.com/coreos/fero/internal/proto"
	"github.com/coreos/fero/store"
)

func convertFeroLogs(logs []*store.FeroLog) []*proto.FeroLogEntry {
	out := make([]*proto.FeroLogEntry, len(logs))
	for i, l := range logs {
		out[i] = &proto.FeroLogEntry{
			Id:             int32(l.Id),
			RequestType:    string(l.RequestType),
			TimestampUnix:  l.Timestamp.Unix(),
			Result:         string(l.Result),
			HsmIndexStart:  int32(l.HsmIndexStart),
			HsmIndexEnd:    int32(l.HsmIndexEnd),
			Identification: l.Identification,
			Hash:           l.Hash,
		}
	}
	return out
}

func convertHsmLogs(logs []*store.HsmLog) []*proto.HsmLogEntry {
	out := make([]*proto.HsmLogEntry, len(logs))
	for i, l := range logs {
		out[i] = &proto.HsmLogEntry{
			HsmIndex:   int32(l.HsmIndex),
			Command:    int32(l.Command),
			DataLength: int32(l.DataLength),
			SessionKey: int32(l.SessionKey),
			TargetKey:  int32(l.TargetKey),
			SecondKey:  int32(l.SecondKey),
			Result:     int32(l.Result),
			Systick:    int32(l.Systick),
			Hash:       l.Hash,
		}
	}
	return out
}
