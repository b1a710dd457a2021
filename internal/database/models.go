package database

import "time"

// Document is one user's ledger stored as a JSON blob.
type Document struct {
	UserKey   string `gorm:"primaryKey;size:128"`
	Data      string `gorm:"type:text;not null"`
	Revision  uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default pluralized name.
func (Document) TableName() string { return "app_documents" }
