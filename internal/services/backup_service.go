package services

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

// BackupService exports and restores the whole dataset as one JSON document.
type BackupService struct {
	DB *sql.DB
}

// Snapshot reads every table in one transaction.
func (s BackupService) Snapshot(ctx context.Context) (models.BackupData, error) {
	var data models.BackupData
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		var err error
		data, err = repositories.BackupRepository{DB: tx}.Dump(ctx)
		return err
	})
	if err != nil {
		return data, err
	}
	data.SchemaVersion = models.BackupSchemaVersion
	data.ExportedAt = utils.Timestamp()
	return data, nil
}

// Export writes the backup to w, gzip compressed when compress is set.
func (s BackupService) Export(ctx context.Context, w io.Writer, compress bool) (models.BackupData, error) {
	data, err := s.Snapshot(ctx)
	if err != nil {
		return data, err
	}
	out := w
	var zw *gzip.Writer
	if compress {
		zw = gzip.NewWriter(w)
		zw.Name = "fleetfin-backup.json"
		out = zw
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return data, fmt.Errorf("encode backup: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return data, fmt.Errorf("compress backup: %w", err)
		}
	}
	utils.LogEvent("", "backup", "export", "backup exported", zap.Any("counts", data.Counts()), zap.Bool("gzip", compress))
	return data, nil
}

// Decode reads a backup document, plain or gzip compressed.
func Decode(r io.Reader) (models.BackupData, error) {
	var data models.BackupData
	br := bufio.NewReader(r)
	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return data, domain.ValidationError{Field: "backup", Msg: "invalid gzip stream", Err: err}
		}
		defer zr.Close()
		src = zr
	}
	if err := json.NewDecoder(src).Decode(&data); err != nil {
		return data, domain.ValidationError{Field: "backup", Msg: "invalid JSON document", Err: err}
	}
	return data, nil
}

func validateBackup(data models.BackupData) error {
	if data.SchemaVersion != models.BackupSchemaVersion {
		return domain.ValidationError{Field: "schemaVersion",
			Msg: fmt.Sprintf("unsupported version %d, expected %d", data.SchemaVersion, models.BackupSchemaVersion)}
	}
	for _, u := range data.Users {
		if u.Active && u.Role == domain.RoleAdmin && u.PasswordHash != "" {
			return nil
		}
	}
	return domain.ValidationError{Field: "users", Msg: "backup has no active admin with a password"}
}

// Import replaces every table with the backup content in one transaction and
// records an import audit row.
func (s BackupService) Import(ctx context.Context, actor domain.Actor, r io.Reader) (map[string]int, error) {
	data, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := validateBackup(data); err != nil {
		return nil, err
	}
	counts := data.Counts()
	err = withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := (repositories.BackupRepository{DB: tx}).Replace(ctx, data); err != nil {
			return err
		}
		after := map[string]any{"exportedAt": data.ExportedAt, "counts": counts}
		return recordAudit(ctx, tx, actor, models.AuditImport, "backup", 0, nil, after)
	})
	if err != nil {
		return nil, err
	}
	utils.LogEvent("", "backup", "import", "backup imported", zap.Any("counts", counts))
	return counts, nil
}
