package repository

import (
	"context"
	"errors"
	"spice-storefront/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed keys the session keeps between restarts.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

type StorageRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

type storageRepoImpl struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepository {
	return &storageRepoImpl{
		db: db,
	}
}

func (r *storageRepoImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.StorageEntry
	err := r.db.WithContext(ctx).
		Where("`key` = ?", key).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	return entry.Value, true, nil
}

func (r *storageRepoImpl) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		}),
	}).Create(&model.StorageEntry{
		Key:   key,
		Value: value,
	}).Error
}

func (r *storageRepoImpl) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("`key` IN ?", keys).
		Delete(&model.StorageEntry{}).Error
}
