package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func TestCreateProjectActorBecomesOwner(t *testing.T) {
	db := setupTestDB(t)

	alice := seedUser(t, db, "alice")

	project, err := CreateProject(db, alice.ID, "P1", "first project")
	require.NoError(t, err)

	assert.Equal(t, alice.ID, project.OwnerID)
	assert.Equal(t, "alice", project.Owner.Username)
	assert.Empty(t, project.Members)
}

func TestListProjectsOwnAndMember(t *testing.T) {
	db := setupTestDB(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	owned := seedProject(t, db, alice.ID, "alice's")
	shared := seedProject(t, db, bob.ID, "bob's shared")
	seedProject(t, db, bob.ID, "bob's private")
	seedMember(t, db, shared, bob.ID, alice.ID)

	projects, err := ListProjects(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	ids := []uint{projects[0].ID, projects[1].ID}
	assert.ElementsMatch(t, []uint{owned.ID, shared.ID}, ids)
}

func TestUpdateProjectOwnerOnly(t *testing.T) {
	db := setupTestDB(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "P1")
	seedMember(t, db, project, alice.ID, bob.ID)

	_, err := UpdateProject(db, project.ID, bob.ID, types.ProjectPatch{Name: strPtr("hijacked")})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	updated, err := UpdateProject(db, project.ID, alice.ID, types.ProjectPatch{Name: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
}

func TestUpdateProjectPartial(t *testing.T) {
	db := setupTestDB(t)

	alice := seedUser(t, db, "alice")

	project, err := CreateProject(db, alice.ID, "P1", "keep me")
	require.NoError(t, err)

	updated, err := UpdateProject(db, project.ID, alice.ID, types.ProjectPatch{Name: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "keep me", updated.Description)
}

func TestDeleteProjectCascades(t *testing.T) {
	db := setupTestDB(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "P1")
	seedMember(t, db, project, alice.ID, bob.ID)

	_, err := CreateTask(db, project.ID, alice.ID, CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	require.NoError(t, DeleteProject(db, project.ID, alice.ID))

	_, err = GetProject(db, project.ID, alice.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	var taskCount int64
	require.NoError(t, db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&taskCount).Error)
	assert.EqualValues(t, 0, taskCount)

	var memberCount int64
	require.NoError(t, db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&memberCount).Error)
	assert.EqualValues(t, 0, memberCount)
}

func TestDeleteProjectMemberForbidden(t *testing.T) {
	db := setupTestDB(t)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, alice.ID, "P1")
	seedMember(t, db, project, alice.ID, bob.ID)

	err := DeleteProject(db, project.ID, bob.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
