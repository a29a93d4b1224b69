package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model

	Title       string `gorm:"size:200;not null"`
	Description string
	Status      string `gorm:"not null;default:todo"`   // "todo", "in_progress", "review", "done"
	Complexity  string `gorm:"not null;default:medium"` // "low", "medium", "high", "critical"
	ProjectID   uint   `gorm:"not null;index"`
	CreatorID   uint   `gorm:"not null"`
	AssigneeID  *uint

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator  User    `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
