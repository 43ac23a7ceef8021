package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pressing-api/internal/presentation/http/middleware"
	"github.com/sangkips/pressing-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return nil
	}
	return &userID
}

// GetUserName returns the display name of the caller, falling back to the email.
func GetUserName(c *gin.Context) string {
	if name := c.GetString(middleware.UserNameKey); name != "" {
		return name
	}
	return c.GetString(middleware.UserEmailKey)
}

// requireUser writes a 401 and returns false when the request is anonymous.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// parseID reads a UUID path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body and answers 422 with per-field messages, or 400 when the
// body cannot be decoded at all.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		response.BadRequest(c, "Request body is required")
		return false
	}
	if fields := request.FieldErrors(err); len(fields) > 0 {
		response.ValidationError(c, fields)
		return false
	}
	response.BadRequest(c, "Invalid request: "+err.Error())
	return false
}

// pageParams reads page and per_page from the query string.
func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// unifiedParams binds both pagination styles from the query string.
func unifiedParams(c *gin.Context) *pagination.UnifiedPaginationParams {
	var params pagination.UnifiedPaginationParams
	_ = c.ShouldBindQuery(&params)
	return &params
}
