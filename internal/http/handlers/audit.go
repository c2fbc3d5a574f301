package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/services"
)

// GET /api/v1/audit?entity=&entityId=&action=&start=&end=&limit=
func ListAudit(c *gin.Context) {
	rng := dateRange(c)
	f := models.AuditFilter{
		Entity: strings.TrimSpace(c.Query("entity")),
		Action: strings.TrimSpace(c.Query("action")),
		Start:  rng.Start,
		End:    rng.End,
	}
	var valid bool
	if f.EntityID, valid = queryID(c, "entityId"); !valid {
		return
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "limit", Msg: "must be an integer"})
			return
		}
		f.Limit = n
	}
	rows, err := services.AuditService{}.List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}
