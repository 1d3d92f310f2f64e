package models

import (
	"time"
)

// Project is owned by exactly one user and shared with a set of members.
// The owner is not stored in Members.
type Project struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Name        string    `gorm:"size:200;not null" bson:"name" json:"name"`
	Description *string   `gorm:"type:text" bson:"description,omitempty" json:"description"`
	StartDate   time.Time `gorm:"not null" bson:"startDate" json:"start_date"`
	EndDate     time.Time `gorm:"not null" bson:"endDate" json:"end_date"`
	OwnerID     string    `gorm:"size:36;index;not null" bson:"owner" json:"owner_id"`
	Members     []string  `gorm:"-" bson:"members" json:"members"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
