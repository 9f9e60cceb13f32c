// Package grpc serves every ParkDesk operation over gRPC with a JSON codec
// and a hand-written service descriptor.
package grpc

import (
	"context"
	"database/sql"
	"net"

	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address string
	db      *sql.DB
	svc     *services.Set
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, db *sql.DB, svc *services.Set) *GRPCServer {
	return &GRPCServer{
		address: a,
		db:      db,
		svc:     svc,
		logger:  l.With("module", "grpc_server"),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoverInterceptor, s.accessTokenInterceptor))
	srv.RegisterService(&serviceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
