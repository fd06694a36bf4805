package model

import "time"

// User represents a registered user. Users own generated music; deleting a
// user cascades to their music rows.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
