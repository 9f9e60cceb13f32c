package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
)

const snapshotRows = 20

// clearedTables are emptied by ClearDatabase, children first. Tariffs,
// barcodes and settings survive.
var clearedTables = []string{"transactions", "vehicles", "shift_closures", "role_permissions", "users", "roles"}

// DevService is the developer console. Every operation needs
// dev:console:access.
type DevService struct {
	base
	identity *IdentityService
	dbPath   string
}

func NewDevService(db *sql.DB, m repomanager.RepositoryManager, identity *IdentityService, dbPath string, opts ...Option) *DevService {
	return &DevService{base: newBase(db, m, "dev", opts), identity: identity, dbPath: dbPath}
}

// Access reports whether the caller may use the developer console.
func (s *DevService) Access(ctx context.Context) error {
	_, err := authorize(ctx, permissions.DevConsoleAccess)
	return err
}

func (s *DevService) Snapshot(ctx context.Context) (*models.DBSnapshot, error) {
	if err := s.Access(ctx); err != nil {
		return nil, err
	}

	vehicles := s.repomanager.Vehicles(s.db)
	txs := s.repomanager.Transactions(s.db)

	var (
		snap models.DBSnapshot
		err  error
	)
	if snap.VehiclesCount, err = vehicles.Count(ctx, ""); err != nil {
		return nil, err
	}
	if snap.TransactionsCount, err = txs.Count(ctx); err != nil {
		return nil, err
	}
	if snap.LastVehicles, err = vehicles.List(ctx, "", snapshotRows, 0); err != nil {
		return nil, err
	}
	if snap.LastTransactions, err = txs.Recent(ctx, snapshotRows); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DatabasePath is the file the server's store lives in.
func (s *DevService) DatabasePath(ctx context.Context) (string, error) {
	if err := s.Access(ctx); err != nil {
		return "", err
	}
	return s.dbPath, nil
}

// ClearDatabase deletes sessions, payments, closures and every account,
// then re-seeds the built-in roles, admin/admin and the developer account
// with its current password. It is one transaction.
func (s *DevService) ClearDatabase(ctx context.Context) error {
	if err := s.Access(ctx); err != nil {
		return err
	}

	err := dbx.WithoutForeignKeys(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		devHash := ""
		dev, err := s.repomanager.Users(tx).GetByID(ctx, permissions.DeveloperUserID)
		switch {
		case err == nil:
			devHash = dev.PasswordHash
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		for _, t := range clearedTables {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
				return fmt.Errorf("db error: clear %s: %w", t, err)
			}
		}
		return migrations.SeedIdentity(ctx, tx, devHash, s.logger)
	})
	if err != nil {
		return err
	}

	s.logger.Warn(ctx, "database cleared", "tables", strings.Join(clearedTables, ","))
	return nil
}

// ResetUserPassword sets any user's password, hidden accounts included.
func (s *DevService) ResetUserPassword(ctx context.Context, userID, password string) error {
	if err := s.Access(ctx); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return validation("user id is required")
	}
	return s.identity.setPassword(ctx, userID, password)
}
