package handlers

import (
	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain/models"
	"fleetfin/internal/services"
)

// GET /api/v1/closes?start=&end=
func ListCloses(c *gin.Context) {
	rows, err := services.ClosingService{}.List(c.Request.Context(), dateRange(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/closes/:date
func GetClose(c *gin.Context) {
	rec, err := services.ClosingService{}.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rec)
}

// GET /api/v1/closes/:date/preview?countedCash=
func PreviewClose(c *gin.Context) {
	counted, valid := optionalDecimal(c, "countedCash")
	if !valid {
		return
	}
	sum, err := services.ClosingService{}.Preview(c.Request.Context(), c.Param("date"), counted)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, sum)
}

type closeRequest struct {
	CountedCash *models.Decimal `json:"countedCash"`
	Notes       string          `json:"notes"`
}

// POST /api/v1/closes/:date
func CloseDay(c *gin.Context) {
	var req closeRequest
	if c.Request.ContentLength != 0 && !BindJSONOrError(c, &req) {
		return
	}
	rec, err := services.ClosingService{}.Close(c.Request.Context(), actor(c), c.Param("date"), req.CountedCash, req.Notes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rec)
}

type reopenRequest struct {
	Reason string `json:"reason"`
}

// POST /api/v1/closes/:date/reopen
func ReopenDay(c *gin.Context) {
	var req reopenRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rec, err := services.ClosingService{}.Reopen(c.Request.Context(), actor(c), c.Param("date"), req.Reason)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rec)
}
