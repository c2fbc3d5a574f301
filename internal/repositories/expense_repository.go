package repositories

import (
	"context"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var expenseTable = table[models.GeneralExpense]{
	name:     "general_expenses",
	resource: "expense",
	columns: []string{"date", "category", "description", "amount", "supplier_id", "payable_id",
		"payment_method", "created_at", "updated_at"},
	selects: []string{"id", "date", "category", "description", "amount", "COALESCE(supplier_id,0)",
		"COALESCE(payable_id,0)", "payment_method", "created_at", "updated_at"},
	scan: func(s scanner) (models.GeneralExpense, error) {
		var e models.GeneralExpense
		err := s.Scan(&e.ID, &e.Date, &e.Category, &e.Description, &e.Amount, &e.SupplierID,
			&e.PayableID, &e.PaymentMethod, &e.CreatedAt, &e.UpdatedAt)
		return e, err
	},
	values: func(e models.GeneralExpense) []any {
		return []any{e.Date, e.Category, e.Description, e.Amount, intdb.NullIfZero(e.SupplierID),
			intdb.NullIfZero(e.PayableID), e.PaymentMethod, e.CreatedAt, e.UpdatedAt}
	},
	idOf:  func(e models.GeneralExpense) int64 { return e.ID },
	order: "date, id",
}

var payableTable = table[models.Payable]{
	name:     "payables",
	resource: "payable",
	columns: []string{"supplier_id", "description", "due_date", "amount", "status", "paid_date",
		"expense_id", "created_at", "updated_at"},
	selects: []string{"id", "supplier_id", "description", "due_date", "amount", "status",
		"COALESCE(paid_date,'')", "COALESCE(expense_id,0)", "created_at", "updated_at"},
	scan: func(s scanner) (models.Payable, error) {
		var p models.Payable
		err := s.Scan(&p.ID, &p.SupplierID, &p.Description, &p.DueDate, &p.Amount, &p.Status,
			&p.PaidDate, &p.ExpenseID, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	},
	values: func(p models.Payable) []any {
		return []any{p.SupplierID, p.Description, p.DueDate, p.Amount, p.Status,
			intdb.NullIfEmpty(p.PaidDate), intdb.NullIfZero(p.ExpenseID), p.CreatedAt, p.UpdatedAt}
	},
	idOf:  func(p models.Payable) int64 { return p.ID },
	order: "due_date, id",
}

type ExpenseFilter struct {
	Range      domain.DateRange
	Category   string
	SupplierID int64
}

type ExpenseRepository struct {
	DB intdb.DBTX
}

func (r ExpenseRepository) db() intdb.DBTX { return conn(r.DB) }

func (r ExpenseRepository) Get(ctx context.Context, id int64) (models.GeneralExpense, error) {
	return expenseTable.get(ctx, r.db(), id)
}

func (r ExpenseRepository) List(ctx context.Context, f ExpenseFilter) ([]models.GeneralExpense, error) {
	var w where
	w.dateRange("date", f.Range)
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.SupplierID > 0 {
		w.add("supplier_id = ?", f.SupplierID)
	}
	return expenseTable.list(ctx, r.db(), w)
}

func (r ExpenseRepository) ListByDate(ctx context.Context, date string) ([]models.GeneralExpense, error) {
	return r.List(ctx, ExpenseFilter{Range: domain.DateRange{Start: date, End: date}})
}

func (r ExpenseRepository) Create(ctx context.Context, e models.GeneralExpense) (int64, error) {
	return expenseTable.insert(ctx, r.db(), e)
}

func (r ExpenseRepository) Update(ctx context.Context, id int64, e models.GeneralExpense) error {
	return expenseTable.update(ctx, r.db(), id, e)
}

func (r ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return expenseTable.delete(ctx, r.db(), id)
}

// PayableFilter narrows payable listings; Due bounds apply to due_date.
type PayableFilter struct {
	Status     string
	Due        domain.DateRange
	SupplierID int64
}

type PayableRepository struct {
	DB intdb.DBTX
}

func (r PayableRepository) db() intdb.DBTX { return conn(r.DB) }

func (r PayableRepository) Get(ctx context.Context, id int64) (models.Payable, error) {
	return payableTable.get(ctx, r.db(), id)
}

func (r PayableRepository) List(ctx context.Context, f PayableFilter) ([]models.Payable, error) {
	var w where
	w.dateRange("due_date", f.Due)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.SupplierID > 0 {
		w.add("supplier_id = ?", f.SupplierID)
	}
	return payableTable.list(ctx, r.db(), w)
}

func (r PayableRepository) Create(ctx context.Context, p models.Payable) (int64, error) {
	return payableTable.insert(ctx, r.db(), p)
}

func (r PayableRepository) Update(ctx context.Context, id int64, p models.Payable) error {
	return payableTable.update(ctx, r.db(), id, p)
}
