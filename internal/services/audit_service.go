package services

import (
	"context"
	"database/sql"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
)

const (
	defaultAuditLimit = 200
	maxAuditLimit     = 1000
)

type AuditService struct {
	DB *sql.DB
}

// List returns audit rows newest first, capped at maxAuditLimit.
func (s AuditService) List(ctx context.Context, f models.AuditFilter) ([]models.AuditLog, error) {
	if err := validRange(domain.DateRange{Start: f.Start, End: f.End}); err != nil {
		return nil, err
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultAuditLimit
	case f.Limit > maxAuditLimit:
		f.Limit = maxAuditLimit
	}
	return repositories.AuditRepository{DB: sqlDB(s.DB)}.List(ctx, f)
}
