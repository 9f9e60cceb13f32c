package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/cryptox"
	"github.com/dmitrijs2005/parkdesk/internal/server/auth"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, token, err := f.identity.Login(ctx, "  ADMIN ", "admin")
	require.NoError(t, err)
	assert.Equal(t, permissions.AdminUserID, session.UserID)
	assert.True(t, session.Has(permissions.UsersCreate))
	assert.False(t, session.Has(permissions.DevConsoleAccess))
	require.NotEmpty(t, token)

	again, err := f.identity.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.Permissions(), again.Permissions())

	_, _, errWrong := f.identity.Login(ctx, "admin", "nope")
	_, _, errUnknown := f.identity.Login(ctx, "ghost", "admin")
	require.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	require.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
	assert.Contains(t, errWrong.Error(), "invalid username or password")

	_, _, err = f.identity.Login(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.identity.Authenticate(ctx, "garbage")
	assert.Error(t, err)
}

func TestLogin_Throttled(t *testing.T) {
	f := newFixture(t)
	cfg := *f.cfg
	cfg.LoginAttemptsPerMinute = 0.001
	cfg.LoginBurst = 2
	s := NewIdentityService(f.db, repomanager.NewSQLiteRepositoryManager(), &cfg)
	ctx := context.Background()

	for range 2 {
		_, _, err := s.Login(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	}
	_, _, err := s.Login(ctx, "Admin", "admin")
	assert.ErrorIs(t, err, common.ErrTooManyAttempts, "limit is per username regardless of case")

	_, _, err = s.Login(ctx, "other", "x")
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "other usernames are unaffected")
}

func TestUserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := adminCtx()

	u, err := f.identity.CreateUser(ctx, " clerk ", "secret", "", permissions.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, "clerk", u.Username)
	assert.Equal(t, "clerk", u.DisplayName)
	assert.Equal(t, "operator", u.RoleName)

	_, err = f.identity.CreateUser(ctx, "CLERK", "secret", "", permissions.RoleOperator)
	assert.ErrorIs(t, err, common.ErrorConflict)
	_, err = f.identity.CreateUser(ctx, "bob", "abc", "", permissions.RoleOperator)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.identity.CreateUser(ctx, "bob", "secret", "", "role_missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.identity.CreateUser(operatorCtx(), "bob", "secret", "", permissions.RoleOperator)
	assert.ErrorIs(t, err, common.ErrorPermissionDenied)

	session, _, err := f.identity.Login(context.Background(), "clerk", "secret")
	require.NoError(t, err)
	assert.True(t, session.Has(permissions.EntriesCreate))
	assert.False(t, session.Has(permissions.UsersRead))

	name := "Front desk"
	role := permissions.RoleAdmin
	_, err = f.identity.UpdateUser(withPerms(permissions.UsersModify), u.ID, nil, &role)
	assert.ErrorIs(t, err, common.ErrorPermissionDenied, "role change needs the assign grant")
	updated, err := f.identity.UpdateUser(withPerms(permissions.UsersModify), u.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Front desk", updated.DisplayName)
	updated, err = f.identity.UpdateUser(ctx, u.ID, nil, &role)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleAdmin, updated.RoleID)

	require.NoError(t, f.identity.SetPassword(ctx, u.ID, "changed"))
	_, _, err = f.identity.Login(context.Background(), "clerk", "changed")
	require.NoError(t, err)
	assert.ErrorIs(t, f.identity.SetPassword(ctx, "user_missing", "changed"), common.ErrorNotFound)

	users, err := f.identity.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	assert.ErrorIs(t, f.identity.DeleteUser(ctx, permissions.AdminUserID), common.ErrorValidation)
	require.NoError(t, f.identity.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, f.identity.DeleteUser(ctx, u.ID), common.ErrorNotFound)
}

func TestRolePermissions(t *testing.T) {
	f := newFixture(t)
	ctx := adminCtx()

	roles, err := f.identity.ListRoles(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(roles), 2)

	perms, err := f.identity.RolePermissions(ctx, permissions.RoleOperator)
	require.NoError(t, err)
	assert.ElementsMatch(t, permissions.Operator(), perms)

	err = f.identity.UpdateRolePermissions(ctx, permissions.RoleOperator, []string{"made:up"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	err = f.identity.UpdateRolePermissions(ctx, "role_missing", []string{permissions.EntriesRead})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, f.identity.UpdateRolePermissions(ctx, permissions.RoleOperator,
		[]string{permissions.EntriesRead, permissions.DebtorsRead}))
	perms, err = f.identity.RolePermissions(ctx, permissions.RoleOperator)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{permissions.EntriesRead, permissions.DebtorsRead}, perms)

	u, err := f.identity.CreateUser(ctx, "reader", "secret", "Reader", permissions.RoleOperator)
	require.NoError(t, err)
	groups, err := f.identity.PermissionsForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "caja", groups[0].Domain)
	assert.Equal(t, []string{"debtors:read"}, groups[0].Actions)
	assert.Equal(t, "vehiculos", groups[1].Domain)

	all, err := f.identity.ListAllPermissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, permissions.All(), all)

	mine, err := f.identity.MyPermissions(withPerms(permissions.BarcodesRead))
	require.NoError(t, err)
	assert.Equal(t, []string{permissions.BarcodesRead}, mine)
	_, err = f.identity.MyPermissions(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.identity.RolePermissions(operatorCtx(), permissions.RoleOperator)
	assert.ErrorIs(t, err, common.ErrorPermissionDenied)
}

func TestFirstRunAndAdminPassword(t *testing.T) {
	f := newFixture(t)

	done, err := f.identity.FirstRunStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, done)

	assert.ErrorIs(t, f.identity.CompleteFirstRun(context.Background()), common.ErrorUnauthorized)
	require.NoError(t, f.identity.CompleteFirstRun(adminCtx()))
	done, err = f.identity.FirstRunStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, done)

	assert.ErrorIs(t, f.identity.ChangeAdminPassword(context.Background(), "admin", "newpass"), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.identity.ChangeAdminPassword(adminCtx(), "wrong", "newpass"), common.ErrorValidation)
	assert.ErrorIs(t, f.identity.ChangeAdminPassword(adminCtx(), "admin", "x"), common.ErrorValidation)
	require.NoError(t, f.identity.ChangeAdminPassword(adminCtx(), "admin", "newpass"))

	_, _, err = f.identity.Login(context.Background(), "admin", "newpass")
	require.NoError(t, err)
}

func TestResetPasswordWithDeveloper(t *testing.T) {
	hash, err := cryptox.HashPassword([]byte("devsecret"))
	require.NoError(t, err)
	f := newFixture(t, migrations.WithDeveloperHash(hash))
	ctx := context.Background()

	users, err := f.identity.ListUsers(adminCtx())
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEqual(t, permissions.DeveloperUserID, u.ID, "developer account is hidden")
	}

	assert.ErrorIs(t, f.identity.ResetPasswordWithDeveloper(ctx, "wrong", "admin", "fresh"), common.ErrorValidation)
	assert.ErrorIs(t, f.identity.ResetPasswordWithDeveloper(ctx, "devsecret", "ghost", "fresh"), common.ErrorNotFound)
	require.NoError(t, f.identity.ResetPasswordWithDeveloper(ctx, "devsecret", "ADMIN", "fresh"))

	_, _, err = f.identity.Login(ctx, "admin", "fresh")
	require.NoError(t, err)

	dev, _, err := f.identity.Login(ctx, "developer", "devsecret")
	require.NoError(t, err)
	assert.True(t, dev.Has(permissions.DevConsoleAccess))
}

func TestResetPasswordWithDeveloper_NoDeveloperAccount(t *testing.T) {
	f := newFixture(t)
	err := f.identity.ResetPasswordWithDeveloper(context.Background(), "anything", "admin", "fresh")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestResetPasswordWithDeveloper_Throttled(t *testing.T) {
	f := newFixture(t)
	cfg := *f.cfg
	cfg.LoginAttemptsPerMinute = 0.001
	cfg.LoginBurst = 1
	s := NewIdentityService(f.db, repomanager.NewSQLiteRepositoryManager(), &cfg)
	ctx := context.Background()

	assert.ErrorIs(t, s.ResetPasswordWithDeveloper(ctx, "guess", "admin", "fresh"), common.ErrorValidation)
	assert.ErrorIs(t, s.ResetPasswordWithDeveloper(ctx, "guess", " Admin ", "fresh"), common.ErrTooManyAttempts)

	_, _, err := s.Login(ctx, "admin", "admin")
	require.NoError(t, err, "logins have their own budget")
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	u, err := f.identity.CurrentUser(adminCtx())
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	_, err = f.identity.CurrentUser(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.identity.SessionFor(context.Background(), "user_missing")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	s, err := f.identity.SessionFor(auth.WithSession(context.Background(), nil), permissions.AdminUserID)
	require.NoError(t, err)
	assert.Equal(t, permissions.RoleAdmin, s.RoleID)
}
