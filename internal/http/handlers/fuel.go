package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/services"
)

// GET /api/v1/fuel
func ListFuel(c *gin.Context) {
	f := repositories.FuelFilter{Range: dateRange(c), PaymentMethod: strings.TrimSpace(c.Query("paymentMethod"))}
	var valid bool
	if f.VehicleID, valid = queryID(c, "vehicleId"); !valid {
		return
	}
	rows, err := services.FuelService{}.List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/fuel/:id
func GetFuel(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.FuelService{}.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/fuel
func CreateFuel(c *gin.Context) {
	var in models.FuelEntry
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.FuelService{}.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// PUT /api/v1/fuel/:id
func UpdateFuel(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in models.FuelEntry
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.FuelService{}.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// DELETE /api/v1/fuel/:id
func DeleteFuel(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := (services.FuelService{}).Delete(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}

// GET /api/v1/fuel/report?vehicleId=&start=&end=
func FuelReport(c *gin.Context) {
	vehicleID, valid := queryID(c, "vehicleId")
	if !valid {
		return
	}
	if vehicleID == 0 {
		RespondDomainError(c, domain.ValidationError{Field: "vehicleId", Msg: "is required"})
		return
	}
	rep, err := services.FuelService{}.VehicleReport(c.Request.Context(), vehicleID, dateRange(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rep)
}
