package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/services"
)

// POST /api/v1/tourism/quote
func QuoteTourism(c *gin.Context) {
	var in finance.QuoteParams
	if !BindJSONOrError(c, &in) {
		return
	}
	q, err := services.TourismService{}.Quote(in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, q)
}

// GET /api/v1/tourism
func ListTourism(c *gin.Context) {
	f := repositories.TourismFilter{Range: dateRange(c), Status: strings.TrimSpace(c.Query("status"))}
	var valid bool
	if f.ClientID, valid = queryID(c, "clientId"); !valid {
		return
	}
	rows, err := services.TourismService{}.List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/tourism/:id
func GetTourism(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.TourismService{}.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/tourism
func CreateTourism(c *gin.Context) {
	var in models.TourismService
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.TourismService{}.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// PUT /api/v1/tourism/:id
func UpdateTourism(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in models.TourismService
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.TourismService{}.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

type tourismStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/v1/tourism/:id/status
func SetTourismStatus(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req tourismStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	row, err := services.TourismService{}.SetStatus(c.Request.Context(), actor(c), id, strings.ToLower(strings.TrimSpace(req.Status)))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

type receiveRequest struct {
	Amount models.Decimal `json:"amount"`
	Date   string         `json:"date"`
}

// POST /api/v1/tourism/:id/receive
func ReceiveTourism(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req receiveRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	row, err := services.TourismService{}.Receive(c.Request.Context(), actor(c), id, req.Amount, req.Date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// DELETE /api/v1/tourism/:id
func DeleteTourism(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := (services.TourismService{}).Delete(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}
