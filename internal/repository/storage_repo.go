package repository

import (
	"errors"

	"asistencia-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageRepository хранилище ключ-значение, разбитое по пространствам (одно на чат)
type StorageRepository interface {
	Get(namespace, key string) (string, bool, error)
	Set(namespace, key, value string) error
	Remove(namespace, key string) error
	Keys(namespace string) ([]string, error)
}

type GormStorageRepository struct {
	db *gorm.DB
}

func NewGormStorageRepository(db *gorm.DB) (*GormStorageRepository, error) {
	// Автомиграция - создает таблицу если ее нет
	if err := db.AutoMigrate(&models.StorageItem{}); err != nil {
		return nil, err
	}

	return &GormStorageRepository{db: db}, nil
}

func (r *GormStorageRepository) Get(namespace, key string) (string, bool, error) {
	var item models.StorageItem
	result := r.db.Where("namespace = ? AND item_key = ?", namespace, key).First(&item)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}

	if result.Error != nil {
		return "", false, result.Error
	}

	return item.Value, true, nil
}

// Set перезаписывает значение: в пространстве не бывает двух строк с одним ключом
func (r *GormStorageRepository) Set(namespace, key, value string) error {
	item := models.StorageItem{
		Namespace: namespace,
		Key:       key,
		Value:     value,
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
}

func (r *GormStorageRepository) Remove(namespace, key string) error {
	return r.db.Where("namespace = ? AND item_key = ?", namespace, key).
		Delete(&models.StorageItem{}).Error
}

func (r *GormStorageRepository) Keys(namespace string) ([]string, error) {
	var keys []string
	err := r.db.Model(&models.StorageItem{}).
		Where("namespace = ?", namespace).
		Order("item_key").
		Pluck("item_key", &keys).Error
	return keys, err
}
