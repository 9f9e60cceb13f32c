package grpc

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	session, token, err := s.svc.Identity.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.LoginResponse{
		AccessToken: token,
		UserID:      session.UserID,
		Username:    session.Username,
		RoleID:      session.RoleID,
		Permissions: session.Permissions(),
	}, nil
}

func (s *GRPCServer) FirstRunStatus(ctx context.Context, _ *rpc.Empty) (*rpc.FirstRunStatusResponse, error) {
	done, err := s.svc.Identity.FirstRunStatus(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.FirstRunStatusResponse{Completed: done}, nil
}

func (s *GRPCServer) ResetPasswordWithDeveloper(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.Empty, error) {
	if err := s.svc.Identity.ResetPasswordWithDeveloper(ctx, req.DeveloperPassword, req.Target, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) CompleteFirstRun(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	if err := s.svc.Identity.CompleteFirstRun(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ChangeAdminPassword(ctx context.Context, req *rpc.ChangeAdminPasswordRequest) (*rpc.Empty, error) {
	if err := s.svc.Identity.ChangeAdminPassword(ctx, req.Current, req.Next); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) CurrentUser(ctx context.Context, _ *rpc.Empty) (*models.User, error) {
	u, err := s.svc.Identity.CurrentUser(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return u, nil
}

func (s *GRPCServer) MyPermissions(ctx context.Context, _ *rpc.Empty) (*rpc.PermissionsResponse, error) {
	perms, err := s.svc.Identity.MyPermissions(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PermissionsResponse{Permissions: perms}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *rpc.Empty) (*rpc.UsersResponse, error) {
	users, err := s.svc.Identity.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UsersResponse{Users: users}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*models.User, error) {
	u, err := s.svc.Identity.CreateUser(ctx, req.Username, req.Password, req.DisplayName, req.RoleID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "user created", "user_id", u.ID)
	return u, nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *rpc.UpdateUserRequest) (*models.User, error) {
	u, err := s.svc.Identity.UpdateUser(ctx, req.ID, req.DisplayName, req.RoleID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return u, nil
}

func (s *GRPCServer) SetPassword(ctx context.Context, req *rpc.SetPasswordRequest) (*rpc.Empty, error) {
	if err := s.svc.Identity.SetPassword(ctx, req.ID, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	if err := s.svc.Identity.DeleteUser(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ListRoles(ctx context.Context, _ *rpc.Empty) (*rpc.RolesResponse, error) {
	roles, err := s.svc.Identity.ListRoles(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.RolesResponse{Roles: roles}, nil
}

func (s *GRPCServer) RolePermissions(ctx context.Context, req *rpc.RoleRequest) (*rpc.PermissionsResponse, error) {
	perms, err := s.svc.Identity.RolePermissions(ctx, req.RoleID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PermissionsResponse{Permissions: perms}, nil
}

func (s *GRPCServer) UpdateRolePermissions(ctx context.Context, req *rpc.UpdateRolePermissionsRequest) (*rpc.Empty, error) {
	if err := s.svc.Identity.UpdateRolePermissions(ctx, req.RoleID, req.Permissions); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) PermissionsForUser(ctx context.Context, req *rpc.UserRequest) (*rpc.PermissionGroupsResponse, error) {
	groups, err := s.svc.Identity.PermissionsForUser(ctx, req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PermissionGroupsResponse{Groups: groups}, nil
}

func (s *GRPCServer) ListAllPermissions(ctx context.Context, _ *rpc.Empty) (*rpc.PermissionsResponse, error) {
	perms, err := s.svc.Identity.ListAllPermissions(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PermissionsResponse{Permissions: perms}, nil
}
