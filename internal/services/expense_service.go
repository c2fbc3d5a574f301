package services

import (
	"context"
	"database/sql"
	"fmt"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

const (
	entityExpense = "expense"
	entityPayable = "payable"

	// PayableCategory is the category of expenses booked by paying a payable.
	PayableCategory = "payable"
)

var expensePayments = map[string]bool{
	models.PaymentCash:     true,
	models.PaymentCard:     true,
	models.PaymentTransfer: true,
}

type ExpenseService struct {
	DB *sql.DB
}

func (s ExpenseService) Get(ctx context.Context, id int64) (models.GeneralExpense, error) {
	return repositories.ExpenseRepository{DB: sqlDB(s.DB)}.Get(ctx, id)
}

func (s ExpenseService) List(ctx context.Context, f repositories.ExpenseFilter) ([]models.GeneralExpense, error) {
	if err := validRange(f.Range); err != nil {
		return nil, err
	}
	return repositories.ExpenseRepository{DB: sqlDB(s.DB)}.List(ctx, f)
}

func cleanExpense(e *models.GeneralExpense) error {
	e.Category = utils.NormalizeSpace(e.Category)
	e.Description = utils.NormalizeSpace(e.Description)
	e.Amount = finance.Round2(e.Amount)
	if e.PaymentMethod == "" {
		e.PaymentMethod = models.PaymentCash
	}
	if !expensePayments[e.PaymentMethod] {
		return domain.ValidationError{Field: "paymentMethod", Msg: "must be cash, card or transfer"}
	}
	return firstErr(
		validDate("date", e.Date),
		required("category", e.Category),
		positive("amount", e.Amount),
	)
}

func (s ExpenseService) Create(ctx context.Context, actor domain.Actor, e models.GeneralExpense) (models.GeneralExpense, error) {
	if err := cleanExpense(&e); err != nil {
		return e, err
	}
	// payable links are only made by PayableService.Pay
	e.PayableID = 0
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := requireExisting(ctx, tx, "suppliers", "supplierId", e.SupplierID); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, e.Date); err != nil {
			return err
		}
		var err error
		e, err = insertExpense(ctx, tx, actor, e)
		return err
	})
	return e, err
}

func insertExpense(ctx context.Context, tx *sql.Tx, actor domain.Actor, e models.GeneralExpense) (models.GeneralExpense, error) {
	e.CreatedAt = utils.Timestamp()
	e.UpdatedAt = e.CreatedAt
	id, err := repositories.ExpenseRepository{DB: tx}.Create(ctx, e)
	if err != nil {
		return e, err
	}
	e.ID = id
	return e, recordAudit(ctx, tx, actor, models.AuditCreate, entityExpense, id, nil, e)
}

func payableLinked(e models.GeneralExpense) error {
	if e.PayableID == 0 {
		return nil
	}
	return domain.ConflictError{Resource: entityExpense, Msg: fmt.Sprintf("expense %d pays payable %d and cannot be changed", e.ID, e.PayableID)}
}

func (s ExpenseService) Update(ctx context.Context, actor domain.Actor, id int64, e models.GeneralExpense) (models.GeneralExpense, error) {
	if err := cleanExpense(&e); err != nil {
		return e, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.ExpenseRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := payableLinked(before); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.Date, e.Date); err != nil {
			return err
		}
		if err := requireExisting(ctx, tx, "suppliers", "supplierId", e.SupplierID); err != nil {
			return err
		}
		e.ID = id
		e.PayableID = 0
		e.CreatedAt = before.CreatedAt
		e.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, e); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityExpense, id, before, e)
	})
	return e, err
}

func (s ExpenseService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.ExpenseRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := payableLinked(before); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.Date); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditDelete, entityExpense, id, before, nil)
	})
}

// PayableService manages supplier bills. Only open payables can change.
type PayableService struct {
	DB *sql.DB
}

// withOverdue flags open payables due before today.
func withOverdue(p models.Payable, today string) models.Payable {
	p.Overdue = p.Status == models.PayableOpen && p.DueDate < today
	return p
}

func (s PayableService) Get(ctx context.Context, id int64) (models.Payable, error) {
	p, err := repositories.PayableRepository{DB: sqlDB(s.DB)}.Get(ctx, id)
	if err != nil {
		return p, err
	}
	return withOverdue(p, utils.Today()), nil
}

// List applies the repository filter; overdueOnly keeps open payables past due.
func (s PayableService) List(ctx context.Context, f repositories.PayableFilter, overdueOnly bool) ([]models.Payable, error) {
	if err := validRange(f.Due); err != nil {
		return nil, err
	}
	if overdueOnly {
		f.Status = models.PayableOpen
	}
	rows, err := repositories.PayableRepository{DB: sqlDB(s.DB)}.List(ctx, f)
	if err != nil {
		return nil, err
	}
	today := utils.Today()
	out := make([]models.Payable, 0, len(rows))
	for _, p := range rows {
		p = withOverdue(p, today)
		if overdueOnly && !p.Overdue {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func cleanPayable(p *models.Payable) error {
	p.Description = utils.NormalizeSpace(p.Description)
	p.Amount = finance.Round2(p.Amount)
	return firstErr(
		validDate("dueDate", p.DueDate),
		required("description", p.Description),
		positive("amount", p.Amount),
	)
}

func (s PayableService) Create(ctx context.Context, actor domain.Actor, p models.Payable) (models.Payable, error) {
	if err := cleanPayable(&p); err != nil {
		return p, err
	}
	p.Status = models.PayableOpen
	p.PaidDate, p.ExpenseID = "", 0
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := requireActive(ctx, tx, "suppliers", "supplierId", p.SupplierID); err != nil {
			return err
		}
		p.CreatedAt = utils.Timestamp()
		p.UpdatedAt = p.CreatedAt
		id, err := repositories.PayableRepository{DB: tx}.Create(ctx, p)
		if err != nil {
			return err
		}
		p.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityPayable, id, nil, p)
	})
	return withOverdue(p, utils.Today()), err
}

func requireOpenPayable(p models.Payable) error {
	switch p.Status {
	case models.PayableOpen:
		return nil
	case models.PayablePaid:
		return domain.ConflictError{Resource: entityPayable, Msg: fmt.Sprintf("payable %d is already paid", p.ID)}
	default:
		return domain.ConflictError{Resource: entityPayable, Msg: fmt.Sprintf("payable %d is %s", p.ID, p.Status)}
	}
}

func (s PayableService) Update(ctx context.Context, actor domain.Actor, id int64, p models.Payable) (models.Payable, error) {
	if err := cleanPayable(&p); err != nil {
		return p, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.PayableRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOpenPayable(before); err != nil {
			return err
		}
		if err := changedRef(ctx, tx, "suppliers", "supplierId", before.SupplierID, p.SupplierID); err != nil {
			return err
		}
		p.ID = id
		p.Status = models.PayableOpen
		p.PaidDate, p.ExpenseID = "", 0
		p.CreatedAt = before.CreatedAt
		p.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, p); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityPayable, id, before, p)
	})
	return withOverdue(p, utils.Today()), err
}

func (s PayableService) Cancel(ctx context.Context, actor domain.Actor, id int64) (models.Payable, error) {
	var after models.Payable
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.PayableRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOpenPayable(before); err != nil {
			return err
		}
		after = before
		after.Status = models.PayableCancelled
		after.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, after); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityPayable, id, before, after)
	})
	return after, err
}

// Pay settles an open payable and books the matching expense on date. The day
// lock applies to the payment date, not the due date.
func (s PayableService) Pay(ctx context.Context, actor domain.Actor, id int64, date, method string) (models.Payable, error) {
	var after models.Payable
	if err := validDate("date", date); err != nil {
		return after, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.PayableRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOpenPayable(before); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, date); err != nil {
			return err
		}
		exp := models.GeneralExpense{
			Date:          date,
			Category:      PayableCategory,
			Description:   before.Description,
			Amount:        before.Amount,
			SupplierID:    before.SupplierID,
			PaymentMethod: method,
		}
		if err := cleanExpense(&exp); err != nil {
			return err
		}
		exp.PayableID = id
		if exp, err = insertExpense(ctx, tx, actor, exp); err != nil {
			return err
		}

		after = before
		after.Status = models.PayablePaid
		after.PaidDate = date
		after.ExpenseID = exp.ID
		after.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, after); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditPay, entityPayable, id, before, after)
	})
	return after, err
}
