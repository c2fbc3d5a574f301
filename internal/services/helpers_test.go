package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fleetfin/internal/testutil"
	"fleetfin/internal/utils"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fixClock pins utils.Now so that "today" is 2024-03-15.
func fixClock(t *testing.T) {
	t.Helper()
	prev := utils.Now
	utils.Now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local) }
	t.Cleanup(func() { utils.Now = prev })
}

type env struct {
	ctx context.Context
	db  *sql.DB
	fx  testutil.Fixtures
}

func setup(t *testing.T) env {
	t.Helper()
	fixClock(t)
	db := testutil.OpenDB(t)
	return env{ctx: context.Background(), db: db, fx: testutil.Seed(t, db)}
}
