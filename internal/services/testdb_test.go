package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMember{}, &models.Task{}))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user, err := RegisterUser(db, username, "password123")
	require.NoError(t, err)

	return user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, name string) models.Project {
	t.Helper()

	project, err := CreateProject(db, ownerID, name, "")
	require.NoError(t, err)

	return project
}

func seedMember(t *testing.T, db *gorm.DB, project models.Project, actorID uint, userID uint) models.ProjectMember {
	t.Helper()

	member, err := AddMember(db, project.ID, actorID, userID)
	require.NoError(t, err)

	return member
}

func uintPtr(v uint) *uint {
	return &v
}

func strPtr(v string) *string {
	return &v
}
