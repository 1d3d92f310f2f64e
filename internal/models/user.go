package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Username  string    `gorm:"size:100;not null" bson:"username" json:"username"`
	Email     string    `gorm:"size:255;index" bson:"email" json:"email"` // unique by convention only
	Password  string    `gorm:"size:255;not null" bson:"password" json:"-"` // bcrypt hash
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

func (User) TableName() string { return "users" }
