package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/middleware"
)

// actorOrAbort returns the caller or writes a 401 when the auth middleware did not run
func actorOrAbort(ctx *gin.Context) (auth.Actor, bool) {
	actor, ok := middleware.ActorFrom(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return actor, ok
}

func badRequest(ctx *gin.Context, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
