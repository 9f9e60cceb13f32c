package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAndPermissions(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(testdb.New(t))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "admin", list[0].Name)

	role, err := r.GetByID(ctx, permissions.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, "operator", role.Name)

	_, err = r.GetByID(ctx, "role_ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.ReplacePermissions(ctx, permissions.RoleOperator,
		[]string{permissions.EntriesRead, permissions.EntriesRead, permissions.TreasuryRead}))
	got, err := r.Permissions(ctx, permissions.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, []string{permissions.TreasuryRead, permissions.EntriesRead}, got)

	require.NoError(t, r.ReplacePermissions(ctx, permissions.RoleOperator, nil))
	got, err = r.Permissions(ctx, permissions.RoleOperator)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplacePermissions_DeleteFails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM role_permissions WHERE role_id = \?$`).
		WithArgs("role_x").
		WillReturnError(errors.New("locked"))

	err = NewSQLiteRepository(db).ReplacePermissions(context.Background(), "role_x", []string{"a"})
	assert.ErrorContains(t, err, "db error: locked")
	require.NoError(t, mock.ExpectationsWereMet())
}
