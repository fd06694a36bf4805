package model

// Genre is a lookup entity referenced by music rows.
type Genre struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}
