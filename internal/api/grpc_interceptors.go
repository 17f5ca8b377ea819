package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"product-showcase-service/internal/auth"
)

// AuthUnaryInterceptor resolves the caller from "authorization" and "x-user-role"
// metadata. Unauthenticated calls proceed as anonymous; handlers that need a user
// reject them.
func AuthUnaryInterceptor(v *auth.Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		principal, identity := v.Authenticate(firstMD(md, "authorization"), firstMD(md, "x-user-role"))
		return handler(auth.NewContext(ctx, principal, identity), req)
	}
}

// LoggingUnaryInterceptor logs one line per RPC.
func LoggingUnaryInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := logger.Info()
		if err != nil {
			event = logger.Warn()
		}
		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", time.Since(start)).
			Msg("gRPC request")
		return resp, err
	}
}

func firstMD(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
