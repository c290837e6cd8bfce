package model

import "time"

// StorageEntry is one key of the console's persistent client storage.
type StorageEntry struct {
	Key       string `gorm:"primaryKey;size:64;not null"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
