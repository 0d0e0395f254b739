// Package server implements the Fero gRPC service (§6) over the
// Dispatcher: it decodes wire requests, calls the Dispatcher, and maps
// errortypes to the gRPC status codes §7 specifies, following the
// teacher's pattern of a thin server type embedding the generated
// Unimplemented* struct and holding its collaborators by reference
// rather than by package global.
package server

import (
	"context"

	"github.com/Sirupsen/logrus"
	"github.com/coreos/fero/dispatcher"
	"github.com/coreos/fero/errortypes"
	"github.com/coreos/fero/internal/proto"
	"github.com/coreos/fero/store"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	proto.UnimplementedFeroServer

	dispatcher *dispatcher.Dispatcher
	store      *store.Store
}

func New(d *dispatcher.Dispatcher, st *store.Store) *Server {
	return &Server{
		dispatcher: d,
		store:      st,
	}
}

// requestLog gives every inbound RPC a correlation id, so a Sign that
// fails partway through — verified, denied, or lost to an HSM error —
// can be traced across the several log lines it produces.
func requestLog(rpc string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"rpc":        rpc,
	})
}

func (s *Server) Sign(ctx context.Context, req *proto.SignRequest) (*proto.SignResponse, error) {
	ident := req.GetIdentification()
	log := requestLog("Sign")

	signature, err := s.dispatcher.Sign(ident.GetSecretName(), ident.GetPayload(), ident.GetSignatures())
	if err != nil {
		log.WithError(err).Warn("server: Sign request failed")
		return nil, mapError(err)
	}

	log.Info("server: Sign request succeeded")
	return &proto.SignResponse{Payload: signature}, nil
}

func (s *Server) SetSecretKeyThreshold(ctx context.Context, req *proto.ThresholdRequest) (*proto.ThresholdResponse, error) {
	ident := req.GetIdentification()

	err := s.dispatcher.Threshold(ident.GetSecretName(), req.GetThreshold(), ident.GetPayload(), ident.GetSignatures())
	if err != nil {
		return nil, mapError(err)
	}

	return &proto.ThresholdResponse{}, nil
}

func (s *Server) SetUserKeyWeight(ctx context.Context, req *proto.WeightRequest) (*proto.WeightResponse, error) {
	ident := req.GetIdentification()

	err := s.dispatcher.Weight(
		ident.GetSecretName(), req.GetUserFingerprint(), req.GetWeight(),
		ident.GetPayload(), ident.GetSignatures(),
	)
	if err != nil {
		return nil, mapError(err)
	}

	return &proto.WeightResponse{}, nil
}

// GetLogs is the supplemented read-only disclosure RPC (SPEC_FULL.md):
// SinceIndex is used as both the fero_logs id cursor and the hsm_logs
// hsm_index cursor — the two sequences are independently monotonic, and
// a single request-level cursor keeps the wire contract simple. No
// quorum check gates this RPC; the audit trail is meant to be legible.
func (s *Server) GetLogs(ctx context.Context, req *proto.LogRequest) (*proto.LogResponse, error) {
	feroLogs, err := s.store.FeroLogsSince(int(req.GetSinceIndex()))
	if err != nil {
		return nil, mapError(err)
	}

	hsmLogs, err := s.store.HsmLogsSince(int(req.GetSinceIndex()))
	if err != nil {
		return nil, mapError(err)
	}

	return &proto.LogResponse{
		FeroLogs: convertFeroLogs(feroLogs),
		HsmLogs:  convertHsmLogs(hsmLogs),
	}, nil
}

func mapError(err error) error {
	switch err.(type) {
	case *errortypes.NotFoundError:
		return status.Error(codes.NotFound, err.Error())
	case *errortypes.ParseError, *errortypes.PayloadMismatchError:
		return status.Error(codes.InvalidArgument, err.Error())
	case *errortypes.AuthorizationError:
		return status.Error(codes.PermissionDenied, err.Error())
	case *errortypes.HsmError:
		return status.Error(codes.Unavailable, err.Error())
	case *errortypes.ExistsError:
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
