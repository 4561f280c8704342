// Package persistence provides storage implementations over the editor's
// SQLite state database and the local filesystem.
package persistence

// ItemModel is a row of the editor's key/value table.
type ItemModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value []byte `gorm:"column:value;type:blob"`
}

// TableName returns the table name.
func (ItemModel) TableName() string {
	return "ItemTable"
}
