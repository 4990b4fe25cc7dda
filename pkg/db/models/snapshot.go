package models

import "time"

// Snapshot is one durable slot of serialized application state. There is one
// row per entity kind (cart, user, orders, books); writes are last-writer-wins
// with no cross-slot transaction.
type Snapshot struct {
	Kind      string    `gorm:"column:kind;primaryKey"`
	Data      []byte    `gorm:"column:data;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used by the snapshot store.
func (Snapshot) TableName() string {
	return "snapshots"
}
