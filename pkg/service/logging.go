package service

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
)

// RPCLogger mirrors every request and response into a zerolog logger. Wire
// it through Options.RPCLog to trace traffic without touching handlers.
type RPCLogger struct {
	log zerolog.Logger
}

var _ jrpc2.RPCLogger = (*RPCLogger)(nil)

func NewRPCLogger(log zerolog.Logger) *RPCLogger {
	return &RPCLogger{log: log}
}

func (l *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	l.log.Debug().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Bool("notification", req.IsNotification()).
		Int("params_bytes", len(req.ParamString())).
		Msg("rpc request received")
}

func (l *RPCLogger) LogResponse(ctx context.Context, rsp *jrpc2.Response) {
	evt := l.log.Debug().
		Str("rpc_id", rsp.ID()).
		Int("result_bytes", len(rsp.ResultString()))
	if rerr := rsp.Error(); rerr != nil {
		evt = evt.Str("rpc_error", rerr.Error())
	}
	evt.Msg("rpc response sent")
}

func applyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	return zerolog.Ctx(ctx).With().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Logger().WithContext(ctx)
}
