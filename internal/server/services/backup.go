package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/backup"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
)

// BackupConfigKey is the settings key holding the JSON backup schedule.
const BackupConfigKey = "backup_config"

// DefaultBackupConfig is used until an operator saves a schedule.
func DefaultBackupConfig() models.BackupConfig {
	return models.BackupConfig{Enabled: false, Schedule: "0 3 * * *", Compress: true, Retention: 7}
}

type BackupService struct {
	base
	manager   *backup.Manager
	scheduler *backup.Scheduler
	onRestore []func()
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, manager *backup.Manager, opts ...Option) *BackupService {
	s := &BackupService{base: newBase(db, m, "backup", opts), manager: manager}
	s.scheduler = backup.NewScheduler(s.RunScheduled, s.logger)
	return s
}

// OnRestore registers fn to run after every successful restore, e.g. to
// drop caches that now hold stale rows.
func (s *BackupService) OnRestore(fn func()) {
	s.onRestore = append(s.onRestore, fn)
}

// Create takes a backup now. A nil compress uses the saved setting.
func (s *BackupService) Create(ctx context.Context, compress *bool) (*models.BackupEntry, error) {
	if _, err := authorize(ctx, permissions.BackupCreate); err != nil {
		return nil, err
	}
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if compress != nil {
		cfg.Compress = *compress
	}
	return s.manager.Create(ctx, cfg.Compress, cfg.Retention)
}

func (s *BackupService) List(ctx context.Context) ([]models.BackupEntry, error) {
	if _, err := authorize(ctx, permissions.BackupListRead); err != nil {
		return nil, err
	}
	return s.manager.List(ctx)
}

func (s *BackupService) Restore(ctx context.Context, path string) error {
	if _, err := authorize(ctx, permissions.BackupRestore); err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return validation("backup path is required")
	}
	if err := s.manager.Restore(ctx, path); err != nil {
		return err
	}
	for _, fn := range s.onRestore {
		fn()
	}
	return nil
}

func (s *BackupService) GetConfig(ctx context.Context) (*models.BackupConfig, error) {
	if _, err := authorize(ctx, permissions.BackupConfigRead); err != nil {
		return nil, err
	}
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig validates and saves cfg, then reschedules the job.
func (s *BackupService) UpdateConfig(ctx context.Context, cfg models.BackupConfig) (*models.BackupConfig, error) {
	if _, err := authorize(ctx, permissions.BackupConfigModify); err != nil {
		return nil, err
	}
	cfg.Schedule = strings.TrimSpace(cfg.Schedule)
	if err := backup.ValidateSchedule(cfg.Schedule); err != nil {
		return nil, validation("%v", err)
	}
	if cfg.Retention < 1 {
		return nil, validation("retention must be at least 1")
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Settings(s.db).Set(ctx, BackupConfigKey, string(raw)); err != nil {
		return nil, err
	}
	if err := s.scheduler.Reschedule(cfg.Schedule, cfg.Enabled); err != nil {
		return nil, validation("%v", err)
	}
	s.logger.Info(ctx, "backup config updated", "enabled", cfg.Enabled, "schedule", cfg.Schedule)
	return &cfg, nil
}

func (s *BackupService) loadConfig(ctx context.Context) (models.BackupConfig, error) {
	cfg := DefaultBackupConfig()
	raw, err := s.repomanager.Settings(s.db).Get(ctx, BackupConfigKey)
	if errors.Is(err, common.ErrorNotFound) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.logger.Warn(ctx, "stored backup config is unreadable, using defaults", "error", err)
		return DefaultBackupConfig(), nil
	}
	return cfg, nil
}

// RunScheduled is the cron job. It runs without a session.
func (s *BackupService) RunScheduled(ctx context.Context) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		s.logger.Error(ctx, "scheduled backup: load config", "error", err)
		return
	}
	if !cfg.Enabled {
		return
	}
	if _, err := s.manager.Create(ctx, cfg.Compress, cfg.Retention); err != nil {
		s.logger.Error(ctx, "scheduled backup failed", "error", err)
	}
}

// StartScheduler applies the saved schedule and starts the cron loop.
func (s *BackupService) StartScheduler(ctx context.Context) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := s.scheduler.Reschedule(cfg.Schedule, cfg.Enabled); err != nil {
		return err
	}
	s.scheduler.Start()
	return nil
}

func (s *BackupService) StopScheduler() {
	s.scheduler.Stop()
}
