package models

import (
	"time"
)

// ProjectMember is the relational form of Project.Members. The composite
// primary key keeps the member set free of duplicates.
type ProjectMember struct {
	ProjectID string    `gorm:"primaryKey;size:36" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string    `gorm:"primaryKey;size:36;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
