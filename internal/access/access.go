// Package access is the single authority on who may touch a project.
// Every project- and task-scoped operation goes through ResolveProject (or
// one of the Require helpers) before doing anything else.
//
// Ordering is deliberate and load-bearing: the project is fetched first, so
// a nonexistent id yields NotFound for everyone, while an existing project
// the caller cannot touch yields Forbidden. Existence of a project id is
// public information; its contents are not.
package access

import (
	"errors"

	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

type Role int

const (
	NoAccess Role = iota
	Member
	Owner
)

func (r Role) String() string {
	switch r {
	case Owner:
		return "owner"
	case Member:
		return "member"
	default:
		return "no_access"
	}
}

// ResolveProject fetches the project and computes userID's role on it.
// The owner is never reported as Member, even if a stray membership row
// exists for them.
func ResolveProject(db *gorm.DB, projectID uint, userID uint) (models.Project, Role, error) {
	var project models.Project

	if err := db.Preload("Owner").Preload("Members.User").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, NoAccess, apperrors.NotFound("Project not found")
		}
		return models.Project{}, NoAccess, err
	}

	if project.OwnerID == userID {
		return project, Owner, nil
	}

	for _, member := range project.Members {
		if member.UserID == userID {
			return project, Member, nil
		}
	}

	return project, NoAccess, nil
}

// RequireAccess resolves the project and fails with Forbidden unless userID
// is its owner or a member.
func RequireAccess(db *gorm.DB, projectID uint, userID uint) (models.Project, error) {
	project, role, err := ResolveProject(db, projectID, userID)

	if err != nil {
		return models.Project{}, err
	}

	if role == NoAccess {
		return models.Project{}, apperrors.Forbidden("Access denied")
	}

	return project, nil
}

// RequireOwner resolves the project and fails with Forbidden unless userID
// is its owner. Members get Forbidden here, not NotFound: they are allowed
// to know the project exists.
func RequireOwner(db *gorm.DB, projectID uint, userID uint) (models.Project, error) {
	project, role, err := ResolveProject(db, projectID, userID)

	if err != nil {
		return models.Project{}, err
	}

	if role != Owner {
		return models.Project{}, apperrors.Forbidden("Only owner can perform this action")
	}

	return project, nil
}

// IsOwnerOrMember reports whether userID holds Owner or Member on an
// already-loaded project (Members preloaded). Used for assignee validation,
// where no separate fetch is wanted.
func IsOwnerOrMember(project models.Project, userID uint) bool {
	if project.OwnerID == userID {
		return true
	}

	for _, member := range project.Members {
		if member.UserID == userID {
			return true
		}
	}

	return false
}
