package client

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

func (s *GRPCClient) FirstRunStatus(ctx context.Context) (bool, error) {
	resp, err := invoke[rpc.FirstRunStatusResponse](ctx, s, rpc.MethodFirstRunStatus, &rpc.Empty{})
	if err != nil {
		return false, err
	}
	return resp.Completed, nil
}

func (s *GRPCClient) CompleteFirstRun(ctx context.Context) error {
	return s.call(ctx, rpc.MethodCompleteFirstRun, &rpc.Empty{}, &rpc.Empty{})
}

func (s *GRPCClient) ResetPasswordWithDeveloper(ctx context.Context, devPassword, target, next string) error {
	return s.call(ctx, rpc.MethodResetPasswordWithDeveloper,
		&rpc.ResetPasswordRequest{DeveloperPassword: devPassword, Target: target, NewPassword: next}, &rpc.Empty{})
}

func (s *GRPCClient) ChangeAdminPassword(ctx context.Context, current, next string) error {
	return s.call(ctx, rpc.MethodChangeAdminPassword, &rpc.ChangeAdminPasswordRequest{Current: current, Next: next}, &rpc.Empty{})
}

func (s *GRPCClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return invoke[models.User](ctx, s, rpc.MethodCurrentUser, &rpc.Empty{})
}

func (s *GRPCClient) MyPermissions(ctx context.Context) ([]string, error) {
	resp, err := invoke[rpc.PermissionsResponse](ctx, s, rpc.MethodMyPermissions, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := invoke[rpc.UsersResponse](ctx, s, rpc.MethodListUsers, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*models.User, error) {
	return invoke[models.User](ctx, s, rpc.MethodCreateUser, req)
}

func (s *GRPCClient) UpdateUser(ctx context.Context, req *rpc.UpdateUserRequest) (*models.User, error) {
	return invoke[models.User](ctx, s, rpc.MethodUpdateUser, req)
}

func (s *GRPCClient) SetPassword(ctx context.Context, id, password string) error {
	return s.call(ctx, rpc.MethodSetPassword, &rpc.SetPasswordRequest{ID: id, Password: password}, &rpc.Empty{})
}

func (s *GRPCClient) DeleteUser(ctx context.Context, id string) error {
	return s.call(ctx, rpc.MethodDeleteUser, &rpc.IDRequest{ID: id}, &rpc.Empty{})
}

func (s *GRPCClient) ListRoles(ctx context.Context) ([]models.Role, error) {
	resp, err := invoke[rpc.RolesResponse](ctx, s, rpc.MethodListRoles, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Roles, nil
}

func (s *GRPCClient) RolePermissions(ctx context.Context, roleID string) ([]string, error) {
	resp, err := invoke[rpc.PermissionsResponse](ctx, s, rpc.MethodRolePermissions, &rpc.RoleRequest{RoleID: roleID})
	if err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}

func (s *GRPCClient) UpdateRolePermissions(ctx context.Context, roleID string, perms []string) error {
	return s.call(ctx, rpc.MethodUpdateRolePermissions,
		&rpc.UpdateRolePermissionsRequest{RoleID: roleID, Permissions: perms}, &rpc.Empty{})
}

func (s *GRPCClient) PermissionsForUser(ctx context.Context, userID string) ([]models.PermissionGroup, error) {
	resp, err := invoke[rpc.PermissionGroupsResponse](ctx, s, rpc.MethodPermissionsForUser, &rpc.UserRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

func (s *GRPCClient) ListAllPermissions(ctx context.Context) ([]string, error) {
	resp, err := invoke[rpc.PermissionsResponse](ctx, s, rpc.MethodListAllPermissions, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Permissions, nil
}
