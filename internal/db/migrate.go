package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	stdfs "io/fs"
	"regexp"
	"sort"
	"strings"
)

// Migrations are versioned .sql files under migrations/<dialect>:
//
//	0001_name.up.sql / 0001_name.down.sql
//
// Only new migrations are applied. RollbackLast reverts the newest one.

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

type migration struct {
	version  int
	name     string
	upFile   string
	downFile string
}

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.(up|down)\.sql$`)

func loadMigrations(dialect string) (map[int]migration, error) {
	entries := map[int]migration{}
	dir := "migrations/" + dialect
	list, err := stdfs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	for _, de := range list {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		m := migFileRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		verStr, migName, kind := m[1], m[2], m[3]
		var ver int
		if _, err := fmt.Sscanf(verStr, "%04d", &ver); err != nil {
			continue
		}
		item := entries[ver]
		item.version = ver
		item.name = migName
		p := dir + "/" + name
		if kind == "up" {
			item.upFile = p
		} else {
			item.downFile = p
		}
		entries[ver] = item
	}
	return entries, nil
}

func ensureMigrationsTable(ctx context.Context, d *sql.DB) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER NOT NULL PRIMARY KEY,
        name VARCHAR(190) NOT NULL DEFAULT '',
        applied_at VARCHAR(32) NOT NULL DEFAULT ''
    )`)
	return err
}

// AppliedVersions lists migration versions already recorded.
func AppliedVersions(ctx context.Context, d *sql.DB) ([]int, error) {
	if err := ensureMigrationsTable(ctx, d); err != nil {
		return nil, err
	}
	rows, err := d.QueryContext(ctx, `SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var got []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		got = append(got, v)
	}
	return got, rows.Err()
}

// splitStatements breaks a script on ";" at line ends. The mysql driver runs
// one statement per Exec unless multiStatements is enabled.
func splitStatements(script string) []string {
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")); stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}
	if stmt := strings.TrimSpace(cur.String()); stmt != "" {
		out = append(out, stmt)
	}
	return out
}

func runScript(ctx context.Context, tx *sql.Tx, text string) error {
	for _, stmt := range splitStatements(text) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Migrate applies pending migrations for the dialect and returns how many ran.
func Migrate(ctx context.Context, d *sql.DB, dialect string, now string) (int, error) {
	migs, err := loadMigrations(dialect)
	if err != nil {
		return 0, err
	}
	done, err := AppliedVersions(ctx, d)
	if err != nil {
		return 0, err
	}
	applied := map[int]bool{}
	for _, v := range done {
		applied[v] = true
	}

	versions := make([]int, 0, len(migs))
	for v := range migs {
		versions = append(versions, v)
	}
	sort.Ints(versions)

	count := 0
	for _, v := range versions {
		if applied[v] {
			continue
		}
		m := migs[v]
		if strings.TrimSpace(m.upFile) == "" {
			return count, fmt.Errorf("missing up migration for version %04d", v)
		}
		sqlText, err := migrationsFS.ReadFile(m.upFile)
		if err != nil {
			return count, err
		}
		// mysql commits DDL implicitly; the transaction still groups the bookkeeping row
		err = WithTx(ctx, d, func(tx *sql.Tx) error {
			if err := runScript(ctx, tx, string(sqlText)); err != nil {
				return fmt.Errorf("migration %04d failed: %w", v, err)
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, name, applied_at) VALUES(?, ?, ?)`, v, m.name, now)
			return err
		})
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// RollbackLast rolls back the most recently applied migration, if its down script exists.
func RollbackLast(ctx context.Context, d *sql.DB, dialect string) error {
	if d == nil {
		return errors.New("nil db")
	}
	if err := ensureMigrationsTable(ctx, d); err != nil {
		return err
	}
	var version int
	err := d.QueryRowContext(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	} else if err != nil {
		return err
	}
	migs, err := loadMigrations(dialect)
	if err != nil {
		return err
	}
	m, ok := migs[version]
	if !ok || m.downFile == "" {
		return fmt.Errorf("no down migration found for version %d", version)
	}
	sqlText, err := migrationsFS.ReadFile(m.downFile)
	if err != nil {
		return err
	}
	return WithTx(ctx, d, func(tx *sql.Tx) error {
		if err := runScript(ctx, tx, string(sqlText)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = ?`, version)
		return err
	})
}
