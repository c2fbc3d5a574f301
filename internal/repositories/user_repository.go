package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var userTable = table[models.User]{
	name:     "users",
	resource: "user",
	columns:  []string{"name", "username", "password_hash", "role", "active", "created_at", "updated_at"},
	selects:  []string{"id", "name", "username", "password_hash", "role", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.User, error) {
		var u models.User
		var role string
		err := s.Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
		u.Role = domain.Role(role)
		return u, err
	},
	values: func(u models.User) []any {
		return []any{u.Name, u.Username, u.PasswordHash, string(u.Role), u.Active, u.CreatedAt, u.UpdatedAt}
	},
	idOf:  func(u models.User) int64 { return u.ID },
	order: "username",
}

type UserRepository struct {
	DB intdb.DBTX
}

func (r UserRepository) db() intdb.DBTX { return conn(r.DB) }

func (r UserRepository) Get(ctx context.Context, id int64) (models.User, error) {
	return userTable.get(ctx, r.db(), id)
}

// GetByUsername is used by login; inactive users are returned too so the
// caller decides how to report them.
func (r UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := userTable.scan(r.db().QueryRowContext(ctx, userTable.selectSQL()+" WHERE username = ?", username))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	return userTable.list(ctx, r.db(), where{})
}

func (r UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	return userTable.insert(ctx, r.db(), u)
}

// Update writes every column including the password hash; callers load the
// row first and change what they need.
func (r UserRepository) Update(ctx context.Context, id int64, u models.User) error {
	return userTable.update(ctx, r.db(), id, u)
}
