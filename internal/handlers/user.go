package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/types"
)

const searchLimit = 10

// SearchUsers backs the member-picker: case-insensitive username substring
// search returning at most ten briefs.
func SearchUsers(ctx *gin.Context) {
	query := ctx.Query("q")

	users, err := services.SearchUsers(db.DB, query, searchLimit)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.UserBrief, 0, len(users))

	for _, user := range users {
		response = append(response, types.NewUserBrief(user))
	}

	ctx.JSON(http.StatusOK, response)
}
