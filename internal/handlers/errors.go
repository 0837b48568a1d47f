package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/config"
	"sink_quoter/internal/services"
)

// respondError maps the engine's error kinds onto HTTP statuses.
func (h *APIHandler) respondError(c *gin.Context, funcName string, err error) {
	var (
		validation *apperr.ValidationError
		transition *apperr.TransitionError
		conflict   *apperr.VersionConflictError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation.Fields})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"from":  transition.From,
			"to":    transition.To,
		})
	case errors.Is(err, apperr.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		body := gin.H{
			"error":           err.Error(),
			"client_version":  conflict.ClientVersion,
			"current_version": conflict.CurrentVersion,
		}
		if conflict.Current != nil {
			body["quote"] = newQuoteResponse(conflict.Current)
		}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, services.ErrInsufficientPermissions):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		config.LogError(h.logger, "APIHandler", funcName, c.Request.Method+" "+c.FullPath(), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
}

// paramID parses a positive integer path parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// bindOptionalJSON decodes the body into dst when one was sent.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c)
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		badRequest(c)
		return false
	}
	return true
}
