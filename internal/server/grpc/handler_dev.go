package grpc

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

func (s *GRPCServer) DevSnapshot(ctx context.Context, _ *rpc.Empty) (*models.DBSnapshot, error) {
	snap, err := s.svc.Dev.Snapshot(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return snap, nil
}

func (s *GRPCServer) DevDatabasePath(ctx context.Context, _ *rpc.Empty) (*rpc.DBPathResponse, error) {
	p, err := s.svc.Dev.DatabasePath(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DBPathResponse{Path: p}, nil
}

func (s *GRPCServer) DevClearDatabase(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	if err := s.svc.Dev.ClearDatabase(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) DevResetUserPassword(ctx context.Context, req *rpc.DevResetPasswordRequest) (*rpc.Empty, error) {
	if err := s.svc.Dev.ResetUserPassword(ctx, req.UserID, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Warn(ctx, "password reset from developer console", "user_id", req.UserID)
	return &rpc.Empty{}, nil
}

// DevListCommands names every registered method.
func (s *GRPCServer) DevListCommands(ctx context.Context, _ *rpc.Empty) (*rpc.CommandsResponse, error) {
	if err := s.svc.Dev.Access(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.CommandsResponse{Commands: append([]string(nil), rpc.Methods...)}, nil
}
