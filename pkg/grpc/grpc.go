package grpc

import (
	"context"
	"time"

	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type cleanupFunc func()

// NewServer returns a gRPC server that logs every unary call.
func NewServer(l logger.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(unaryLogger(l)))
	return grpc.NewServer(opts...)
}

// NewClient opens an insecure client connection to addr.
func NewClient(addr string, opts ...grpc.DialOption) (*grpc.ClientConn, cleanupFunc, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() { _ = conn.Close() }, nil
}

func unaryLogger(l logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		kv := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		}
		if err != nil {
			l.Warnw(ctx, "gRPC call failed", append(kv, "error", err.Error())...)
			return resp, err
		}
		l.Debugf(ctx, "gRPC call %s ok in %s", info.FullMethod, time.Since(start))
		return resp, nil
	}
}
