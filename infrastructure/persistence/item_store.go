package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/hackai-log/domain/service"
	"github.com/helixml/hackai-log/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemStore implements service.KeyValueStore over ItemTable.
type ItemStore struct {
	db database.Database
}

// NewItemStore creates a new ItemStore.
func NewItemStore(db database.Database) ItemStore {
	return ItemStore{db: db}
}

// Get returns the value stored under key. A row holding NULL or an empty
// value counts as missing.
func (s ItemStore) Get(ctx context.Context, key string) ([]byte, error) {
	var model ItemModel
	err := s.db.Session(ctx).Where("key = ?", key).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", key, service.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", key, err)
	}
	if len(model.Value) == 0 {
		return nil, fmt.Errorf("%s: empty value: %w", key, service.ErrKeyNotFound)
	}
	return model.Value, nil
}

// Put stores value under key, replacing any existing row.
func (s ItemStore) Put(ctx context.Context, key string, value []byte) error {
	model := ItemModel{Key: key, Value: value}
	result := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("put item %s: %w", key, result.Error)
	}
	return nil
}

// Keys lists the stored keys starting with prefix, in key order.
func (s ItemStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	q := s.db.Session(ctx).Model(&ItemModel{})
	if prefix != "" {
		q = q.Where("substr(key, 1, ?) = ?", len(prefix), prefix)
	}
	if err := q.Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list item keys: %w", err)
	}
	return keys, nil
}
