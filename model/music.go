package model

import "time"

// Music represents one generated clip. The title is globally unique and the
// row exists iff its generated audio file exists on disk; the orchestrator
// upholds that invariant across success and failure paths.
type Music struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"not null;index" json:"userId"`
	User   User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// UUID names the artifact file; the human title is metadata only.
	UUID    string `gorm:"size:36;not null;uniqueIndex" json:"-"`
	Title   string `gorm:"size:100;not null;uniqueIndex" json:"title"`
	GenreID int64  `gorm:"not null;index" json:"genreId"`
	Genre   Genre  `json:"-"`
	Prompt  string `gorm:"type:text" json:"prompt"`

	// OriginalAudioPath optionally points at a reference audio input.
	OriginalAudioPath string `gorm:"size:255" json:"-"`
	// GeneratedAudioPath is the artifact file path on the local store.
	GeneratedAudioPath string `gorm:"size:255;not null" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the table singular, matching the existing schema.
func (Music) TableName() string {
	return "music"
}

// GenreCount is one entry of a user's genre distribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}
