package services

import (
	"errors"

	"github.com/taskflow-dev/taskflow/internal/access"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Complexity  string
	AssigneeID  *uint
}

// CreateTask persists a task with the actor as creator. An assignee, if
// given, must hold Owner or Member access to the project at this moment;
// the check is not re-run later except through the member-removal cascade.
func CreateTask(db *gorm.DB, projectID uint, actorID uint, input CreateTaskInput) (models.Task, error) {
	project, err := access.RequireAccess(db, projectID, actorID)

	if err != nil {
		return models.Task{}, err
	}

	if input.AssigneeID != nil && !access.IsOwnerOrMember(project, *input.AssigneeID) {
		return models.Task{}, apperrors.Validation("Assignee must be project owner or member")
	}

	status := input.Status
	if status == "" {
		status = types.TaskStatusTodo
	}

	complexity := input.Complexity
	if complexity == "" {
		complexity = types.TaskComplexityMedium
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Complexity:  complexity,
		ProjectID:   project.ID,
		CreatorID:   actorID,
		AssigneeID:  input.AssigneeID,
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}

	return loadTask(db, task.ID)
}

// ListTasks returns the project's tasks, most recently created first.
func ListTasks(db *gorm.DB, projectID uint, userID uint) ([]models.Task, error) {
	if _, err := access.RequireAccess(db, projectID, userID); err != nil {
		return nil, err
	}

	var tasks []models.Task

	err := db.Preload("Creator").Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error

	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func GetTask(db *gorm.DB, projectID uint, taskID uint, userID uint) (models.Task, error) {
	if _, err := access.RequireAccess(db, projectID, userID); err != nil {
		return models.Task{}, err
	}

	return findProjectTask(db, projectID, taskID)
}

// UpdateTask applies a partial update. Only fields present in the patch are
// touched; creator, project and created_at never change. A present non-null
// assignee is validated against current membership, a present null clears
// the assignee, an absent assignee field leaves it as is.
func UpdateTask(db *gorm.DB, projectID uint, taskID uint, actorID uint, patch types.TaskPatch) (models.Task, error) {
	project, err := access.RequireAccess(db, projectID, actorID)

	if err != nil {
		return models.Task{}, err
	}

	task, err := findProjectTask(db, projectID, taskID)

	if err != nil {
		return models.Task{}, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}

	if patch.Description != nil {
		task.Description = *patch.Description
	}

	if patch.Status != nil {
		task.Status = *patch.Status
	}

	if patch.Complexity != nil {
		task.Complexity = *patch.Complexity
	}

	if patch.Assignee.Set {
		if patch.Assignee.Value != nil && !access.IsOwnerOrMember(project, *patch.Assignee.Value) {
			return models.Task{}, apperrors.Validation("Assignee must be project owner or member")
		}
		task.AssigneeID = patch.Assignee.Value
	}

	// Save writes every column, so an assignee cleared to nil actually
	// reaches the database as NULL. Associations are omitted: the loaded
	// Creator/Assignee structs must not be upserted along the way.
	if err := db.Omit(clause.Associations).Save(&task).Error; err != nil {
		return models.Task{}, err
	}

	return loadTask(db, task.ID)
}

func DeleteTask(db *gorm.DB, projectID uint, taskID uint, userID uint) error {
	if _, err := access.RequireAccess(db, projectID, userID); err != nil {
		return err
	}

	task, err := findProjectTask(db, projectID, taskID)

	if err != nil {
		return err
	}

	return db.Delete(&task).Error
}

func findProjectTask(db *gorm.DB, projectID uint, taskID uint) (models.Task, error) {
	var task models.Task

	err := db.Preload("Creator").Preload("Assignee").
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, apperrors.NotFound("Task not found")
		}
		return models.Task{}, err
	}

	return task, nil
}

func loadTask(db *gorm.DB, taskID uint) (models.Task, error) {
	var task models.Task

	if err := db.Preload("Creator").Preload("Assignee").First(&task, taskID).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}
