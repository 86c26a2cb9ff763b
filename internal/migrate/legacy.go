package migrate

import "time"

// Legacy row variants, one per schema version. They all map onto the
// legacy_books table and are consumed only by the pipeline in this
// package; steady-state code sees the final entities shapes.

// bookV1 stores the author names as a list.
type bookV1 struct {
	ID          uint     `gorm:"primaryKey"`
	Title       string   `gorm:"size:512"`
	Authors     []string `gorm:"serializer:json"`
	Series      *string  `gorm:"size:256"`
	SeriesOrder *int
	Added       time.Time
	EstRelease  *time.Time
}

// bookV2 adds a single author string derived from the list.
type bookV2 struct {
	ID          uint     `gorm:"primaryKey"`
	Title       string   `gorm:"size:512"`
	Authors     []string `gorm:"serializer:json"`
	Author      string   `gorm:"size:512"`
	Series      *string  `gorm:"size:256"`
	SeriesOrder *int
	Added       time.Time
	EstRelease  *time.Time
}

// bookV3 adds a sortable form of the first author.
type bookV3 struct {
	ID          uint     `gorm:"primaryKey"`
	Title       string   `gorm:"size:512"`
	Authors     []string `gorm:"serializer:json"`
	Author      string   `gorm:"size:512"`
	SortAuthor  string   `gorm:"size:512"`
	Series      *string  `gorm:"size:256"`
	SeriesOrder *int
	Added       time.Time
	EstRelease  *time.Time
}

func (bookV1) TableName() string { return "legacy_books" }
func (bookV2) TableName() string { return "legacy_books" }
func (bookV3) TableName() string { return "legacy_books" }

// schemaInfo is the single-row version stamp for the store.
type schemaInfo struct {
	ID      uint `gorm:"primaryKey"`
	Version int
}

func (schemaInfo) TableName() string { return "schema_info" }
