package controllers

import (
	"errors"
	"strconv"

	"nimbusdrive/models"
	"nimbusdrive/store"
	"nimbusdrive/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError maps service errors onto the HTTP taxonomy. Invalid-state
// transitions surface as not-found, matching what the trash view shows
// the caller. Infrastructure failures are logged and answered with a
// generic 500; retry is the client's responsibility.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInvalidState):
		utils.NotFoundResponse(c, "Not found")
	case errors.Is(err, models.ErrStorageLimitExceeded):
		utils.ForbiddenResponse(c, "Storage limit exceeded")
	default:
		utils.LogError(fallback, err)
		utils.InternalServerErrorResponse(c, fallback, nil)
	}
}

// parseListOptions reads the explicit filter set from the query string.
// Defaults: active items, no star/document/containment filter, no limit.
// parentParam is "folderId" for files and "parentId" for folders; the
// literal value "null" scopes to root-level items.
func parseListOptions(c *gin.Context, parentParam string) (store.ListOptions, error) {
	opts := store.ListOptions{
		IsArchive: c.Query("isArchive") == "true",
	}

	if raw, ok := c.GetQuery("isStar"); ok {
		v := raw == "true"
		opts.IsStar = &v
	}
	if raw, ok := c.GetQuery("isDocument"); ok {
		v := raw == "true"
		opts.IsDocument = &v
	}

	if raw, ok := c.GetQuery(parentParam); ok {
		if raw == "null" || raw == "" {
			opts.HasParent = true
		} else {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return opts, err
			}
			opts.HasParent = true
			opts.ParentID = &id
		}
	}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = limit
	}

	return opts, nil
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+param, nil)
		return primitive.NilObjectID, false
	}
	return id, true
}
