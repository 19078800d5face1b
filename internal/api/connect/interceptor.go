package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"
)

// RequestRecorder receives one observation per unary call.
type RequestRecorder interface {
	ObserveRequest(procedure, code string)
}

type resultCoder interface {
	ResultCode() string
}

// NewObservabilityInterceptor creates an interceptor that logs every unary
// call and records its result code.
func NewObservabilityInterceptor(recorder RequestRecorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			start := time.Now()

			resp, err := next(ctx, req)

			code := resultCode(resp, err)
			if recorder != nil {
				recorder.ObserveRequest(procedure, code)
			}
			zlog.Info().
				Str("procedure", procedure).
				Str("code", code).
				Dur("elapsed", time.Since(start)).
				Msg("rpc")
			return resp, err
		}
	}
}

func resultCode(resp connect.AnyResponse, err error) string {
	if err != nil || resp == nil {
		return CodeInternalError
	}
	if rc, ok := resp.Any().(resultCoder); ok {
		return rc.ResultCode()
	}
	return CodeSuccess
}
