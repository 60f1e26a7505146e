// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/landkit/internal/ids"
	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/util"
)

// ErrEmailTaken is returned when creating a user with an email in use.
var ErrEmailTaken = errors.New("email is already registered")

// UserStore manages accounts and their API keys.
type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserStore creates a UserStore.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

const userColumns = `id, email, name, plan, plan_expires_at, api_key_hash, created_at, updated_at`

func scanUser(s rowScanner) (model.User, error) {
	var (
		u       model.User
		expires sql.NullTime
	)
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.Plan, &expires, &u.APIKeyHash, &u.CreatedAt, &u.UpdatedAt)
	u.PlanExpiresAt = util.TimePtrFromNull(expires)
	return u, err
}

// CreateUserParams holds the fields of a new account.
type CreateUserParams struct {
	Email         string
	Name          string
	Plan          model.PlanTier
	PlanExpiresAt *time.Time
}

// Create registers a user and returns it together with its API key. The raw
// key is not stored and cannot be recovered later.
func (s *UserStore) Create(ctx context.Context, arg CreateUserParams) (model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(arg.Email))
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, "", &model.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	plan := arg.Plan
	if plan == "" {
		plan = model.PlanFree
	}
	if !plan.Valid() {
		return model.User{}, "", &model.ValidationError{Field: "plan", Reason: fmt.Sprintf("%q is not a known plan", plan)}
	}

	key, err := model.GenerateAPIKey()
	if err != nil {
		return model.User{}, "", fmt.Errorf("generating api key: %w", err)
	}

	now := s.now().UTC()
	u := model.User{
		ID:            ids.NewUser(),
		Email:         email,
		Name:          strings.TrimSpace(arg.Name),
		Plan:          plan,
		PlanExpiresAt: arg.PlanExpiresAt,
		APIKeyHash:    model.HashAPIKey(key),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.Plan, util.NullTimeFromPtr(u.PlanExpiresAt), u.APIKeyHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err, "users.email") {
		return model.User{}, "", ErrEmailTaken
	}
	if err != nil {
		return model.User{}, "", unavailable("creating user", err)
	}
	return u, key, nil
}

// Get returns the user with the given id.
func (s *UserStore) Get(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if isNoRows(err) {
		return model.User{}, &model.NotFoundError{Kind: "user", ID: id}
	}
	if err != nil {
		return model.User{}, unavailable("loading user", err)
	}
	return u, nil
}

// GetByEmail returns the user registered under email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if isNoRows(err) {
		return model.User{}, &model.NotFoundError{Kind: "user", ID: email}
	}
	if err != nil {
		return model.User{}, unavailable("loading user", err)
	}
	return u, nil
}

// GetByAPIKey resolves a raw API key to its user.
func (s *UserStore) GetByAPIKey(ctx context.Context, key string) (model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE api_key_hash = ?`, model.HashAPIKey(key)))
	if isNoRows(err) {
		return model.User{}, &model.NotFoundError{Kind: "user", ID: "api key"}
	}
	if err != nil {
		return model.User{}, unavailable("loading user", err)
	}
	return u, nil
}

// UpdatePlan changes the plan of a user. A nil expiresAt means the plan
// does not lapse.
func (s *UserStore) UpdatePlan(ctx context.Context, id string, plan model.PlanTier, expiresAt *time.Time) (model.User, error) {
	if !plan.Valid() {
		return model.User{}, &model.ValidationError{Field: "plan", Reason: fmt.Sprintf("%q is not a known plan", plan)}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET plan = ?, plan_expires_at = ?, updated_at = ? WHERE id = ?`,
		plan, util.NullTimeFromPtr(expiresAt), s.now().UTC(), id)
	if err != nil {
		return model.User{}, unavailable("updating plan", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.User{}, &model.NotFoundError{Kind: "user", ID: id}
	}
	return s.Get(ctx, id)
}

// RotateAPIKey replaces the API key of a user and returns the new raw key.
func (s *UserStore) RotateAPIKey(ctx context.Context, id string) (string, error) {
	key, err := model.GenerateAPIKey()
	if err != nil {
		return "", fmt.Errorf("generating api key: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET api_key_hash = ?, updated_at = ? WHERE id = ?`,
		model.HashAPIKey(key), s.now().UTC(), id)
	if err != nil {
		return "", unavailable("rotating api key", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", &model.NotFoundError{Kind: "user", ID: id}
	}
	return key, nil
}

// Delete removes a user. Their pages go with them.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return unavailable("deleting user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &model.NotFoundError{Kind: "user", ID: id}
	}
	return nil
}
