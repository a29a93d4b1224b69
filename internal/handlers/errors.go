package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

// respondError maps a service error onto the wire. Taxonomy errors pass
// through with their kind; anything else is logged and hidden behind a 500.
func respondError(ctx *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	if status == http.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
		ctx.JSON(status, gin.H{"error": "Internal server error", "kind": string(apperrors.KindInternal)})
		return
	}

	ctx.JSON(status, gin.H{"error": err.Error(), "kind": string(apperrors.KindOf(err))})
}
