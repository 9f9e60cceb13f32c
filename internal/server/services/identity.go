package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/cryptox"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/auth"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// FirstRunKey is the settings key set once the initial setup is done.
const FirstRunKey = "first_run_completed"

const minPasswordLength = 4

var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)

// IdentityService authenticates operators and manages users, roles and
// the first-run flow.
type IdentityService struct {
	base
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	loginRate  rate.Limit
	loginBurst int
	limitersMu sync.Mutex
	limiters   *cache.Cache
}

func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *IdentityService {
	burst := cfg.LoginBurst
	if burst <= 0 {
		burst = 1
	}
	return &IdentityService{
		base:                        newBase(db, m, "identity", opts),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		loginRate:                   rate.Limit(cfg.LoginAttemptsPerMinute / 60),
		loginBurst:                  burst,
		limiters:                    cache.New(15*time.Minute, 30*time.Minute),
	}
}

// limiter returns the attempt limiter of one key, creating it on first use.
// Idle limiters expire from the cache.
func (s *IdentityService) limiter(username string) *rate.Limiter {
	key := strings.ToLower(username)

	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	if l, ok := s.limiters.Get(key); ok {
		s.limiters.SetDefault(key, l)
		return l.(*rate.Limiter)
	}
	l := rate.NewLimiter(s.loginRate, s.loginBurst)
	s.limiters.SetDefault(key, l)
	return l
}

// Login verifies the credentials and returns the session and a signed access
// token. Unknown users and wrong passwords yield the same error.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*auth.Session, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", errInvalidCredentials
	}
	if !s.limiter(username).Allow() {
		s.logger.Warn(ctx, "login throttled", "username", username)
		return nil, "", common.ErrTooManyAttempts
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}
	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(password))
	if err != nil || !ok {
		return nil, "", errInvalidCredentials
	}

	session, err := s.sessionOf(ctx, user)
	if err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return session, token, nil
}

// Authenticate resolves an access token to a fresh session.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*auth.Session, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.SessionFor(ctx, userID)
}

// SessionFor binds userID to the current permission set of its role.
func (s *IdentityService) SessionFor(ctx context.Context, userID string) (*auth.Session, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown user", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return s.sessionOf(ctx, user)
}

func (s *IdentityService) sessionOf(ctx context.Context, user *models.User) (*auth.Session, error) {
	perms, err := s.repomanager.Roles(s.db).Permissions(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("error loading permissions: %w", err)
	}
	return auth.NewSession(user.ID, user.Username, user.RoleID, perms), nil
}

// CurrentUser returns the profile of the calling user.
func (s *IdentityService) CurrentUser(ctx context.Context) (*models.User, error) {
	session := auth.FromContext(ctx)
	if session == nil {
		return nil, common.ErrorUnauthorized
	}
	return s.getUser(ctx, s.db, session.UserID)
}

func (s *IdentityService) getUser(ctx context.Context, db dbx.DBTX, id string) (*models.User, error) {
	u, err := s.repomanager.Users(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound("user not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

func (s *IdentityService) ListUsers(ctx context.Context) ([]models.User, error) {
	if _, err := authorize(ctx, permissions.UsersRead); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).List(ctx)
}

// CreateUser adds a visible user. The display name defaults to the username.
func (s *IdentityService) CreateUser(ctx context.Context, username, password, displayName, roleID string) (*models.User, error) {
	if _, err := authorize(ctx, permissions.UsersCreate); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}
	if username == "" {
		return nil, validation("username is required")
	}
	if len(password) < minPasswordLength {
		return nil, validation("password must be at least %d characters", minPasswordLength)
	}
	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           common.NewID(common.PrefixUser),
		Username:     username,
		DisplayName:  displayName,
		RoleID:       roleID,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		taken, err := s.repomanager.Users(tx).UsernameTaken(ctx, username, "")
		if err != nil {
			return err
		}
		if taken {
			return conflict("username already exists")
		}
		role, err := s.getRole(ctx, tx, roleID)
		if err != nil {
			return err
		}
		user.RoleName = role.Name
		return s.repomanager.Users(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user created", "user_id", user.ID, "role_id", roleID)
	return user, nil
}

// UpdateUser changes the display name and/or the role. A nil argument leaves
// the field as is; changing the role additionally needs the assign grant.
func (s *IdentityService) UpdateUser(ctx context.Context, id string, displayName, roleID *string) (*models.User, error) {
	session, err := authorize(ctx, permissions.UsersModify)
	if err != nil {
		return nil, err
	}
	if roleID != nil {
		if err := session.Require(permissions.UsersAssign); err != nil {
			return nil, err
		}
	}

	var user *models.User
	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if roleID != nil {
			role, err := s.getRole(ctx, tx, *roleID)
			if err != nil {
				return err
			}
			u.RoleID, u.RoleName = role.ID, role.Name
		}
		if displayName != nil {
			if name := strings.TrimSpace(*displayName); name != "" {
				u.DisplayName = name
			}
		}
		if err := s.repomanager.Users(tx).Update(ctx, u.ID, u.DisplayName, u.RoleID); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) SetPassword(ctx context.Context, id, password string) error {
	if _, err := authorize(ctx, permissions.UsersModify); err != nil {
		return err
	}
	return s.setPassword(ctx, id, password)
}

func (s *IdentityService) setPassword(ctx context.Context, id, password string) error {
	if len(password) < minPasswordLength {
		return validation("password must be at least %d characters", minPasswordLength)
	}
	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repomanager.Users(s.db).SetPassword(ctx, id, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("user not found")
		}
		return err
	}
	s.logger.Info(ctx, "password changed", "user_id", id)
	return nil
}

// DeleteUser removes a user other than the caller.
func (s *IdentityService) DeleteUser(ctx context.Context, id string) error {
	session, err := authorize(ctx, permissions.UsersDelete)
	if err != nil {
		return err
	}
	if session.UserID == id {
		return validation("cannot delete the current user")
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("user not found")
		}
		return err
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *IdentityService) getRole(ctx context.Context, db dbx.DBTX, id string) (*models.Role, error) {
	role, err := s.repomanager.Roles(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, notFound("role not found")
		}
		return nil, err
	}
	return role, nil
}

func (s *IdentityService) ListRoles(ctx context.Context) ([]models.Role, error) {
	if _, err := authorize(ctx, permissions.UsersRead); err != nil {
		return nil, err
	}
	return s.repomanager.Roles(s.db).List(ctx)
}

func (s *IdentityService) RolePermissions(ctx context.Context, roleID string) ([]string, error) {
	if _, err := authorize(ctx, permissions.PermissionsRead); err != nil {
		return nil, err
	}
	if _, err := s.getRole(ctx, s.db, roleID); err != nil {
		return nil, err
	}
	return s.repomanager.Roles(s.db).Permissions(ctx, roleID)
}

// UpdateRolePermissions replaces the role's grant set wholesale. Every
// string must be in the catalog.
func (s *IdentityService) UpdateRolePermissions(ctx context.Context, roleID string, perms []string) error {
	if _, err := authorize(ctx, permissions.PermissionsModify); err != nil {
		return err
	}
	for _, p := range perms {
		if !permissions.Known(p) {
			return validation("unknown permission: %s", p)
		}
	}
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.getRole(ctx, tx, roleID); err != nil {
			return err
		}
		return s.repomanager.Roles(tx).ReplacePermissions(ctx, roleID, perms)
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "role permissions replaced", "role_id", roleID, "count", len(perms))
	return nil
}

// MyPermissions returns the caller's grants, sorted.
func (s *IdentityService) MyPermissions(ctx context.Context) ([]string, error) {
	session := auth.FromContext(ctx)
	if session == nil {
		return nil, common.ErrorUnauthorized
	}
	return session.Permissions(), nil
}

// PermissionsForUser groups a user's grants by domain.
func (s *IdentityService) PermissionsForUser(ctx context.Context, userID string) ([]models.PermissionGroup, error) {
	if _, err := authorize(ctx, permissions.PermissionsRead); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	perms, err := s.repomanager.Roles(s.db).Permissions(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}

	grouped := permissions.Group(perms)
	out := make([]models.PermissionGroup, 0, len(grouped))
	for domain, actions := range grouped {
		out = append(out, models.PermissionGroup{Domain: domain, Actions: actions})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out, nil
}

// ListAllPermissions returns the whole catalog.
func (s *IdentityService) ListAllPermissions(ctx context.Context) ([]string, error) {
	if _, err := authorize(ctx, permissions.PermissionsRead); err != nil {
		return nil, err
	}
	return permissions.All(), nil
}

// FirstRunStatus reports whether the initial setup was completed. It needs
// no session.
func (s *IdentityService) FirstRunStatus(ctx context.Context) (bool, error) {
	v, err := s.repomanager.Settings(s.db).Get(ctx, FirstRunKey)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *IdentityService) CompleteFirstRun(ctx context.Context) error {
	if auth.FromContext(ctx) == nil {
		return common.ErrorUnauthorized
	}
	return s.repomanager.Settings(s.db).Set(ctx, FirstRunKey, "1")
}

// ChangeAdminPassword replaces the built-in admin password after checking
// the current one.
func (s *IdentityService) ChangeAdminPassword(ctx context.Context, current, next string) error {
	if auth.FromContext(ctx) == nil {
		return common.ErrorUnauthorized
	}
	if len(next) < minPasswordLength {
		return validation("password must be at least %d characters", minPasswordLength)
	}
	admin, err := s.repomanager.Users(s.db).GetByID(ctx, permissions.AdminUserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("admin user not found")
		}
		return err
	}
	if ok, err := cryptox.VerifyPassword(admin.PasswordHash, []byte(current)); err != nil || !ok {
		return validation("invalid current password")
	}
	return s.setPassword(ctx, admin.ID, next)
}

// ResetPasswordWithDeveloper sets target's password when devPassword matches
// the developer account. target is "admin", "developer", a username or a
// user id. It needs no session.
func (s *IdentityService) ResetPasswordWithDeveloper(ctx context.Context, devPassword, target, next string) error {
	if len(next) < minPasswordLength {
		return validation("password must be at least %d characters", minPasswordLength)
	}
	errDev := validation("invalid developer password")

	if !s.limiter("reset:" + strings.ToLower(strings.TrimSpace(target))).Allow() {
		s.logger.Warn(ctx, "developer reset throttled", "target", target)
		return common.ErrTooManyAttempts
	}

	dev, err := s.repomanager.Users(s.db).GetByID(ctx, permissions.DeveloperUserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errDev
		}
		return err
	}
	if dev.PasswordHash == "" {
		return errDev
	}
	if ok, err := cryptox.VerifyPassword(dev.PasswordHash, []byte(devPassword)); err != nil || !ok {
		return errDev
	}

	id, err := s.resolveTarget(ctx, target)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, id, next)
}

func (s *IdentityService) resolveTarget(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	switch strings.ToLower(target) {
	case "":
		return "", validation("target user is required")
	case "admin":
		return permissions.AdminUserID, nil
	case "developer":
		return permissions.DeveloperUserID, nil
	}

	users := s.repomanager.Users(s.db)
	u, err := users.GetByUsername(ctx, target)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return "", err
	}
	if u, err = users.GetByID(ctx, target); err == nil {
		return u.ID, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return "", notFound("user not found")
	}
	return "", err
}
