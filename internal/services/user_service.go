package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"fleetfin/internal/auth"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

const entityUser = "user"

// UserInput is the payload of user create/update. An empty Password keeps the
// current one on update.
type UserInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

type UserService struct {
	DB     *sql.DB
	Tokens *auth.Tokens
}

func (s UserService) repo() repositories.UserRepository {
	return repositories.UserRepository{DB: sqlDB(s.DB)}
}

// Login checks the credentials of an active user and issues a token.
// Unknown user, wrong password and inactive user all answer the same way.
func (s UserService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	invalid := domain.UnauthorizedError{Msg: "invalid username or password"}
	u, err := s.repo().GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if domain.IsNotFound(err) {
		return LoginResult{}, invalid
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !u.Active || !auth.CheckPassword(u.PasswordHash, password) {
		return LoginResult{}, invalid
	}
	token, exp, err := s.Tokens.Issue(u.Actor())
	if err != nil {
		return LoginResult{}, err
	}
	if err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		return recordAudit(ctx, tx, u.Actor(), models.AuditLogin, entityUser, u.ID, nil, nil)
	}); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Me reloads the caller so a deactivated account stops working before its token expires.
func (s UserService) Me(ctx context.Context, actor domain.Actor) (models.User, error) {
	u, err := s.repo().Get(ctx, actor.UserID)
	if domain.IsNotFound(err) || (err == nil && !u.Active) {
		return models.User{}, domain.UnauthorizedError{Msg: "user is no longer active"}
	}
	return u, err
}

func (s UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo().List(ctx)
}

func (s UserService) Get(ctx context.Context, id int64) (models.User, error) {
	return s.repo().Get(ctx, id)
}

func parseRole(v string) (domain.Role, error) {
	role, ok := domain.ParseRole(strings.ToLower(strings.TrimSpace(v)))
	if !ok {
		return "", domain.ValidationError{Field: "role", Msg: "must be admin, manager, operator or viewer"}
	}
	return role, nil
}

func (s UserService) Create(ctx context.Context, actor domain.Actor, in UserInput) (models.User, error) {
	u := models.User{
		Name:     utils.NormalizeSpace(in.Name),
		Username: strings.ToLower(strings.TrimSpace(in.Username)),
		Active:   true,
	}
	if err := firstErr(required("name", u.Name), required("username", u.Username)); err != nil {
		return u, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return u, err
	}
	u.Role = role
	if u.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
		return u, err
	}
	u.CreatedAt = utils.Timestamp()
	u.UpdatedAt = u.CreatedAt
	err = withTx(ctx, s.DB, func(tx *sql.Tx) error {
		id, err := repositories.UserRepository{DB: tx}.Create(ctx, u)
		if err != nil {
			return err
		}
		u.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityUser, id, nil, u)
	})
	return u, err
}

// Update changes name, role, active flag and optionally the password. An
// admin cannot demote or deactivate itself.
func (s UserService) Update(ctx context.Context, actor domain.Actor, id int64, in UserInput) (models.User, error) {
	var after models.User
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.UserRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		after = before
		if name := utils.NormalizeSpace(in.Name); name != "" {
			after.Name = name
		}
		if in.Role != "" {
			if after.Role, err = parseRole(in.Role); err != nil {
				return err
			}
		}
		if in.Active != nil {
			after.Active = *in.Active
		}
		if in.Password != "" {
			if after.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
				return err
			}
		}
		if id == actor.UserID && (!after.Active || after.Role != before.Role) {
			return domain.ConflictError{Resource: entityUser, Msg: "you cannot change your own role or deactivate yourself"}
		}
		after.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, after); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityUser, id, before, after)
	})
	return after, err
}

// EnsureBootstrapAdmin creates the first admin when the users table is empty.
// It returns false when users already exist.
func (s UserService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.repo().Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if strings.TrimSpace(password) == "" {
		return false, domain.ValidationError{Field: "admin_password", Msg: "is required to create the first admin"}
	}
	system := domain.Actor{Username: "system", Role: domain.RoleAdmin}
	u, err := s.Create(ctx, system, UserInput{Name: "Administrator", Username: username, Password: password, Role: string(domain.RoleAdmin)})
	if err != nil {
		return false, err
	}
	utils.LogEvent("", "auth", "bootstrap", "first admin created", zap.String("username", u.Username))
	return true, nil
}
