package services

import (
	"github.com/taskflow-dev/taskflow/internal/access"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreateProject(db *gorm.DB, ownerID uint, name string, description string) (models.Project, error) {
	project := models.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	if err := db.Create(&project).Error; err != nil {
		return models.Project{}, err
	}

	// Reload with relationships for the response
	if err := db.Preload("Owner").Preload("Members.User").First(&project, project.ID).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

// ListProjects returns every project the user owns or is a member of,
// most recently updated first.
func ListProjects(db *gorm.DB, userID uint) ([]models.Project, error) {
	var projects []models.Project

	memberProjectIDs := db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	err := db.Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID, memberProjectIDs).
		Order("updated_at DESC").
		Find(&projects).Error

	if err != nil {
		return nil, err
	}

	return projects, nil
}

func GetProject(db *gorm.DB, projectID uint, userID uint) (models.Project, error) {
	return access.RequireAccess(db, projectID, userID)
}

func UpdateProject(db *gorm.DB, projectID uint, actorID uint, patch types.ProjectPatch) (models.Project, error) {
	project, err := access.RequireOwner(db, projectID, actorID)

	if err != nil {
		return models.Project{}, err
	}

	if patch.Name != nil {
		project.Name = *patch.Name
	}

	if patch.Description != nil {
		project.Description = *patch.Description
	}

	if err := db.Omit(clause.Associations).Save(&project).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

// DeleteProject removes the project together with its tasks and memberships
// in one transaction. The cascade is explicit: soft-deleting the project row
// alone would leave its children visible.
func DeleteProject(db *gorm.DB, projectID uint, actorID uint) error {
	project, err := access.RequireOwner(db, projectID, actorID)

	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		// Hard delete: a soft-deleted row would keep holding the
		// (project_id, user_id) unique index.
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})
}
