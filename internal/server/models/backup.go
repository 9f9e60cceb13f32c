package models

import "time"

type BackupEntry struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int64     `json:"sizeBytes"`
}

// BackupConfig is the persisted schedule of automatic backups.
type BackupConfig struct {
	Enabled   bool   `json:"enabled"`
	Schedule  string `json:"schedule"`
	Compress  bool   `json:"compress"`
	Retention int    `json:"retention"`
}
