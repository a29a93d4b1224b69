package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetProjectID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "project_id", "Project ID")
}

func GetTaskID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "task_id", "Task ID")
}

func GetUserID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "user_id", "User ID")
}

func GetProjectTaskID(ctx *gin.Context) (uint, uint, error) {
	var err error

	projectID, err := GetProjectID(ctx)

	if err != nil {
		return 0, 0, err
	}

	taskID, err := GetTaskID(ctx)

	if err != nil {
		return 0, 0, err
	}

	return projectID, taskID, nil
}

func getUintParam(ctx *gin.Context, name string, label string) (uint, error) {
	value := ctx.Param(name)

	if value == "" {
		return 0, errors.New(label + " not found")
	}

	parsed, err := strconv.ParseUint(value, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label)
	}

	return uint(parsed), nil
}
