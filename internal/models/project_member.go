package models

import "gorm.io/gorm"

// ProjectMember links a user to a project they do not own. The owner never
// has a row here; ownership is recorded on the project itself.
type ProjectMember struct {
	gorm.Model

	ProjectID uint `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_project_user"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
