package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the three task states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task belongs to a project and is removed together with it.
type Task struct {
	ID         string        `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title      string        `gorm:"size:300;not null" bson:"title" json:"title"`
	ProjectID  string        `gorm:"size:36;index;not null" bson:"projectId" json:"project_id"`
	Project    *Project      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" bson:"-" json:"-"`
	AssignedTo *string       `gorm:"size:36" bson:"assignedTo,omitempty" json:"assigned_to"`
	Status     TaskStatus    `gorm:"size:20;not null;default:PENDING" bson:"status" json:"status"`
	Priority   *TaskPriority `gorm:"size:10" bson:"priority,omitempty" json:"priority"`
	DueDate    *time.Time    `bson:"dueDate,omitempty" json:"due_date"`
	CreatedAt  time.Time     `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }
