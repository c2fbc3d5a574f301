package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain"
	"fleetfin/internal/http/middleware"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Field: "body", Msg: "is empty"})
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "body", Msg: "invalid JSON payload", Err: err})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// queryID reads an optional numeric filter; absent means 0.
func queryID(c *gin.Context, name string) (int64, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func dateRange(c *gin.Context) domain.DateRange {
	return domain.DateRange{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}
}

// actor returns the authenticated caller; routes are mounted behind Auth.
func actor(c *gin.Context) domain.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func ok(c *gin.Context, v any) {
	c.JSON(http.StatusOK, v)
}

func created(c *gin.Context, v any) {
	c.JSON(http.StatusCreated, v)
}
