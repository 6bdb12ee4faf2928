package models

import "time"

// StorageItem пара ключ-значение в хранилище одного чата
type StorageItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Namespace string    `gorm:"size:64;not null;uniqueIndex:idx_storage_ns_key" json:"namespace"`
	Key       string    `gorm:"column:item_key;size:128;not null;uniqueIndex:idx_storage_ns_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StorageItem) TableName() string {
	return "storage_items"
}
