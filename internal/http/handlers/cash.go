package handlers

import (
	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/services"
)

func cashFilter(c *gin.Context) (repositories.CashFilter, bool) {
	f := repositories.CashFilter{Range: dateRange(c)}
	var valid bool
	if f.RouteID, valid = queryID(c, "routeId"); !valid {
		return f, false
	}
	if f.VehicleID, valid = queryID(c, "vehicleId"); !valid {
		return f, false
	}
	if f.DriverID, valid = queryID(c, "driverId"); !valid {
		return f, false
	}
	if f.AgencyID, valid = queryID(c, "agencyId"); !valid {
		return f, false
	}
	return f, true
}

// GET /api/v1/route-cash
func ListRouteCash(c *gin.Context) {
	f, valid := cashFilter(c)
	if !valid {
		return
	}
	rows, err := services.CashService{}.ListRouteCash(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/route-cash/:id
func GetRouteCash(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.CashService{}.GetRouteCash(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/route-cash
func CreateRouteCash(c *gin.Context) {
	var in models.RouteCash
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.CashService{}.CreateRouteCash(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// PUT /api/v1/route-cash/:id
func UpdateRouteCash(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in models.RouteCash
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.CashService{}.UpdateRouteCash(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// DELETE /api/v1/route-cash/:id
func DeleteRouteCash(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := (services.CashService{}).DeleteRouteCash(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}

// GET /api/v1/agency-cash
func ListAgencyCash(c *gin.Context) {
	f, valid := cashFilter(c)
	if !valid {
		return
	}
	rows, err := services.CashService{}.ListAgencyCash(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/agency-cash/:id
func GetAgencyCash(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.CashService{}.GetAgencyCash(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/agency-cash
func CreateAgencyCash(c *gin.Context) {
	var in models.AgencyCash
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.CashService{}.CreateAgencyCash(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// PUT /api/v1/agency-cash/:id
func UpdateAgencyCash(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in models.AgencyCash
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.CashService{}.UpdateAgencyCash(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// DELETE /api/v1/agency-cash/:id
func DeleteAgencyCash(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := (services.CashService{}).DeleteAgencyCash(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}
