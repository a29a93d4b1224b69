package services

import (
	"errors"

	"github.com/taskflow-dev/taskflow/internal/access"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

// AddMember grants targetUserID Member access to the project. Only the owner
// may do this; the owner themselves can never be added as a member.
func AddMember(db *gorm.DB, projectID uint, actorID uint, targetUserID uint) (models.ProjectMember, error) {
	project, err := access.RequireOwner(db, projectID, actorID)

	if err != nil {
		return models.ProjectMember{}, err
	}

	var user models.User

	if err := db.First(&user, targetUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProjectMember{}, apperrors.NotFound("User not found")
		}
		return models.ProjectMember{}, err
	}

	for _, member := range project.Members {
		if member.UserID == targetUserID {
			return models.ProjectMember{}, apperrors.Conflict("User is already a member")
		}
	}

	if project.OwnerID == targetUserID {
		return models.ProjectMember{}, apperrors.Conflict("Owner cannot be added as member")
	}

	member := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    targetUserID,
	}

	if err := db.Create(&member).Error; err != nil {
		// Concurrent duplicate slips past the in-memory check; the
		// unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ProjectMember{}, apperrors.Conflict("User is already a member")
		}
		return models.ProjectMember{}, err
	}

	member.User = user
	member.Project = project

	return member, nil
}

// RemoveMember revokes membership and clears the removed user from every
// task in the project they were assigned to. Both writes happen in a single
// transaction: either the membership is gone and no task points at the
// ex-member, or nothing changed.
func RemoveMember(db *gorm.DB, projectID uint, actorID uint, targetUserID uint) error {
	project, err := access.RequireOwner(db, projectID, actorID)

	if err != nil {
		return err
	}

	var member models.ProjectMember

	err = db.Where("project_id = ? AND user_id = ?", project.ID, targetUserID).First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Member not found")
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assignee_id = ?", project.ID, targetUserID).
			Update("assignee_id", nil).Error

		if err != nil {
			return err
		}

		// Hard delete so the (project_id, user_id) unique index frees
		// up and the user can be re-added later.
		return tx.Unscoped().Delete(&member).Error
	})
}

func ListMembers(db *gorm.DB, projectID uint, userID uint) ([]models.ProjectMember, error) {
	project, err := access.RequireAccess(db, projectID, userID)

	if err != nil {
		return nil, err
	}

	return project.Members, nil
}
