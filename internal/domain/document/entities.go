package document

import (
	"context"
	"time"
)

// DealFile is metadata of a file held by the external document store.
type DealFile struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	FileID      string    `gorm:"column:file_id;size:32;not null;uniqueIndex" json:"file_id"`
	PropertyID  uint64    `gorm:"column:property_id;not null;index" json:"-"`
	FileName    string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	URL         string    `gorm:"column:url;type:text" json:"url"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DealFile) TableName() string { return "deal_files" }

type Repository interface {
	Create(ctx context.Context, f *DealFile) error
	// FindByDescription lists files of the property whose description contains term.
	FindByDescription(ctx context.Context, propertyID uint64, term string) ([]DealFile, error)
}
