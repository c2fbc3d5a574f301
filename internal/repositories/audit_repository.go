package repositories

import (
	"context"
	"encoding/json"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain/models"
)

var auditTable = table[models.AuditLog]{
	name:     "audit_logs",
	resource: "audit_log",
	columns:  []string{"at", "user_id", "username", "action", "entity", "entity_id", "before_json", "after_json"},
	selects: []string{"id", "at", "user_id", "username", "action", "entity", "entity_id",
		"COALESCE(before_json,'')", "COALESCE(after_json,'')"},
	scan: func(s scanner) (models.AuditLog, error) {
		var a models.AuditLog
		var before, after string
		err := s.Scan(&a.ID, &a.At, &a.UserID, &a.Username, &a.Action, &a.Entity, &a.EntityID, &before, &after)
		if before != "" {
			a.Before = json.RawMessage(before)
		}
		if after != "" {
			a.After = json.RawMessage(after)
		}
		return a, err
	},
	values: func(a models.AuditLog) []any {
		return []any{a.At, a.UserID, a.Username, a.Action, a.Entity, a.EntityID, rawOrNull(a.Before), rawOrNull(a.After)}
	},
	idOf:  func(a models.AuditLog) int64 { return a.ID },
	order: "id DESC",
}

func rawOrNull(m json.RawMessage) any {
	if len(m) == 0 || string(m) == "null" {
		return nil
	}
	return string(m)
}

type AuditRepository struct {
	DB intdb.DBTX
}

func (r AuditRepository) db() intdb.DBTX { return conn(r.DB) }

func (r AuditRepository) Insert(ctx context.Context, a models.AuditLog) (int64, error) {
	return auditTable.insert(ctx, r.db(), a)
}

// List returns newest first. Start and End compare against the date part of at.
func (r AuditRepository) List(ctx context.Context, f models.AuditFilter) ([]models.AuditLog, error) {
	var w where
	if f.Entity != "" {
		w.add("entity = ?", f.Entity)
	}
	if f.EntityID > 0 {
		w.add("entity_id = ?", f.EntityID)
	}
	if f.Action != "" {
		w.add("action = ?", f.Action)
	}
	if f.Start != "" {
		w.add("at >= ?", f.Start)
	}
	if f.End != "" {
		// "2024-03-01T..." sorts below "2024-03-01~"
		w.add("at < ?", f.End+"~")
	}
	w.limit = f.Limit
	return auditTable.list(ctx, r.db(), w)
}
