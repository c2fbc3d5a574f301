package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/services"
)

// GET /api/v1/expenses
func ListExpenses(c *gin.Context) {
	f := repositories.ExpenseFilter{Range: dateRange(c), Category: strings.TrimSpace(c.Query("category"))}
	var valid bool
	if f.SupplierID, valid = queryID(c, "supplierId"); !valid {
		return
	}
	rows, err := services.ExpenseService{}.List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/expenses/:id
func GetExpense(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.ExpenseService{}.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/expenses
func CreateExpense(c *gin.Context) {
	var in models.GeneralExpense
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.ExpenseService{}.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// PUT /api/v1/expenses/:id
func UpdateExpense(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in models.GeneralExpense
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.ExpenseService{}.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// DELETE /api/v1/expenses/:id
func DeleteExpense(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := (services.ExpenseService{}).Delete(c.Request.Context(), actor(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}

// GET /api/v1/payables?status=&overdue=true
func ListPayables(c *gin.Context) {
	f := repositories.PayableFilter{Status: strings.TrimSpace(c.Query("status")), Due: dateRange(c)}
	var valid bool
	if f.SupplierID, valid = queryID(c, "supplierId"); !valid {
		return
	}
	rows, err := services.PayableService{}.List(c.Request.Context(), f, c.Query("overdue") == "true")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, rows)
}

// GET /api/v1/payables/:id
func GetPayable(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.PayableService{}.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/payables
func CreatePayable(c *gin.Context) {
	var in models.Payable
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.PayableService{}.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, row)
}

// PUT /api/v1/payables/:id
func UpdatePayable(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in models.Payable
	if !BindJSONOrError(c, &in) {
		return
	}
	row, err := services.PayableService{}.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// POST /api/v1/payables/:id/cancel
func CancelPayable(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	row, err := services.PayableService{}.Cancel(c.Request.Context(), actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

type payRequest struct {
	Date          string `json:"date"`
	PaymentMethod string `json:"paymentMethod"`
}

// POST /api/v1/payables/:id/pay
func PayPayable(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req payRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	row, err := services.PayableService{}.Pay(c.Request.Context(), actor(c), id, req.Date, req.PaymentMethod)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, row)
}

// optionalDecimal parses a query parameter that may be absent.
func optionalDecimal(c *gin.Context, name string) (*decimal.Decimal, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a number", Err: err})
		return nil, false
	}
	return &d, true
}
