package handlers

import (
	"github.com/gin-gonic/gin"

	"fleetfin/internal/domain/models"
	"fleetfin/internal/services"
)

// POST /api/v1/ledger
func AddLedgerEntry(c *gin.Context) {
	var in models.DriverLedgerEntry
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.LedgerService{}.Add(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// DELETE /api/v1/ledger/:id
func DeleteLedgerEntry(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := (services.LedgerService{}).Delete(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}

// GET /api/v1/drivers/:id/statement?start=&end=
func DriverStatement(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	st, err := services.LedgerService{}.Statement(c.Request.Context(), id, dateRange(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, st)
}

// GET /api/v1/ledger/balances
func DriverBalances(c *gin.Context) {
	rows, err := services.LedgerService{}.Balances(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}
