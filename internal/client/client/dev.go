package client

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

func (s *GRPCClient) DevSnapshot(ctx context.Context) (*models.DBSnapshot, error) {
	return invoke[models.DBSnapshot](ctx, s, rpc.MethodDevSnapshot, &rpc.Empty{})
}

func (s *GRPCClient) DevDatabasePath(ctx context.Context) (string, error) {
	resp, err := invoke[rpc.DBPathResponse](ctx, s, rpc.MethodDevDatabasePath, &rpc.Empty{})
	if err != nil {
		return "", err
	}
	return resp.Path, nil
}

func (s *GRPCClient) DevClearDatabase(ctx context.Context) error {
	return s.call(ctx, rpc.MethodDevClearDatabase, &rpc.Empty{}, &rpc.Empty{})
}

func (s *GRPCClient) DevResetUserPassword(ctx context.Context, userID, password string) error {
	return s.call(ctx, rpc.MethodDevResetUserPassword, &rpc.DevResetPasswordRequest{UserID: userID, Password: password}, &rpc.Empty{})
}

func (s *GRPCClient) DevListCommands(ctx context.Context) ([]string, error) {
	resp, err := invoke[rpc.CommandsResponse](ctx, s, rpc.MethodDevListCommands, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Commands, nil
}
