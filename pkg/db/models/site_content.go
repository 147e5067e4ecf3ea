package models

import "time"

// SiteContentRowID is the only row the site_content table ever holds.
const SiteContentRowID = 1

type SiteContent struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	ContentJSON string    `gorm:"column:content_json;not null"`
	Version     int64     `gorm:"column:version;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (SiteContent) TableName() string { return "site_content" }
