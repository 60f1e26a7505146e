// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/landkit/internal/model"
	"github.com/olegiv/landkit/internal/util"
)

// PageStore loads and saves whole page documents.
type PageStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPageStore creates a PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db, now: time.Now}
}

const pageColumns = `id, owner_id, title, slug, description, status, theme, settings, blocks, created_at, updated_at, published_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(s rowScanner) (model.Page, error) {
	var (
		p                       model.Page
		theme, settings, blocks string
		publishedAt             sql.NullTime
	)
	if err := s.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Slug, &p.Description, &p.Status,
		&theme, &settings, &blocks, &p.CreatedAt, &p.UpdatedAt, &publishedAt); err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(theme), &p.Theme); err != nil {
		return p, fmt.Errorf("decoding theme of page %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(settings), &p.Settings); err != nil {
		return p, fmt.Errorf("decoding settings of page %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(blocks), &p.Blocks); err != nil {
		return p, fmt.Errorf("decoding blocks of page %s: %w", p.ID, err)
	}
	if p.Blocks == nil {
		p.Blocks = []model.Block{}
	}
	p.PublishedAt = util.TimePtrFromNull(publishedAt)
	return p, nil
}

// Load returns the page with the given id.
func (s *PageStore) Load(ctx context.Context, id string) (model.Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	p, err := scanPage(row)
	if isNoRows(err) {
		return model.Page{}, &model.NotFoundError{Kind: "page", ID: id}
	}
	if err != nil {
		return model.Page{}, unavailable("loading page", err)
	}
	return p, nil
}

// LoadPublishedBySlug returns the live page answering to slug.
func (s *PageStore) LoadPublishedBySlug(ctx context.Context, slug string) (model.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ? AND status = ?`, slug, model.PageStatusPublished)
	p, err := scanPage(row)
	if isNoRows(err) {
		return model.Page{}, &model.NotFoundError{Kind: "page", ID: slug}
	}
	if err != nil {
		return model.Page{}, unavailable("loading published page", err)
	}
	return p, nil
}

// ListByOwner returns the pages of ownerID, most recently edited first.
func (s *PageStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE owner_id = ? ORDER BY updated_at DESC, id`, ownerID)
	if err != nil {
		return nil, unavailable("listing pages", err)
	}
	defer func() { _ = rows.Close() }()

	pages := []model.Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, unavailable("listing pages", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("listing pages", err)
	}
	return pages, nil
}

// CountByOwner returns how many pages ownerID has.
func (s *PageStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages WHERE owner_id = ?`, ownerID).Scan(&n); err != nil {
		return 0, unavailable("counting pages", err)
	}
	return n, nil
}

// Save writes the whole document on behalf of ownerID and returns it with
// the stored timestamps. The page must belong to ownerID. A published page
// must not share its slug with another live page, nor with a page another
// owner took offline.
func (s *PageStore) Save(ctx context.Context, ownerID string, p model.Page) (model.Page, error) {
	if p.OwnerID != ownerID {
		return model.Page{}, fmt.Errorf("%w: page %s belongs to another user", model.ErrPermissionDenied, p.ID)
	}

	theme, err := json.Marshal(p.Theme)
	if err != nil {
		return model.Page{}, fmt.Errorf("encoding theme: %w", err)
	}
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return model.Page{}, fmt.Errorf("encoding settings: %w", err)
	}
	blocks := p.Blocks
	if blocks == nil {
		blocks = []model.Block{}
	}
	blocksJSON, err := json.Marshal(blocks)
	if err != nil {
		return model.Page{}, fmt.Errorf("encoding blocks: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Page{}, unavailable("saving page", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		storedOwner string
		createdAt   time.Time
	)
	err = tx.QueryRowContext(ctx, `SELECT owner_id, created_at FROM pages WHERE id = ?`, p.ID).Scan(&storedOwner, &createdAt)
	switch {
	case isNoRows(err):
		createdAt = s.now().UTC()
	case err != nil:
		return model.Page{}, unavailable("saving page", err)
	case storedOwner != ownerID:
		return model.Page{}, fmt.Errorf("%w: page %s belongs to another user", model.ErrPermissionDenied, p.ID)
	}

	if p.Status == model.PageStatusPublished {
		taken, err := slugTaken(ctx, tx, ownerID, p.Slug, p.ID)
		if err != nil {
			return model.Page{}, err
		}
		if taken {
			return model.Page{}, fmt.Errorf("%w: %q", model.ErrSlugConflict, p.Slug)
		}
	}

	p.CreatedAt = createdAt
	p.UpdatedAt = s.now().UTC()
	p.Blocks = blocks

	_, err = tx.ExecContext(ctx, `INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			slug = excluded.slug,
			description = excluded.description,
			status = excluded.status,
			theme = excluded.theme,
			settings = excluded.settings,
			blocks = excluded.blocks,
			updated_at = excluded.updated_at,
			published_at = excluded.published_at`,
		p.ID, p.OwnerID, p.Title, p.Slug, p.Description, p.Status,
		string(theme), string(settings), string(blocksJSON),
		p.CreatedAt, p.UpdatedAt, util.NullTimeFromPtr(p.PublishedAt))
	if isUniqueViolation(err, "pages.slug") {
		return model.Page{}, fmt.Errorf("%w: %q", model.ErrSlugConflict, p.Slug)
	}
	if err != nil {
		return model.Page{}, unavailable("saving page", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Page{}, unavailable("saving page", err)
	}
	return p, nil
}

// Delete removes a page owned by ownerID.
func (s *PageStore) Delete(ctx context.Context, ownerID, id string) error {
	var storedOwner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM pages WHERE id = ?`, id).Scan(&storedOwner)
	if isNoRows(err) {
		return &model.NotFoundError{Kind: "page", ID: id}
	}
	if err != nil {
		return unavailable("deleting page", err)
	}
	if storedOwner != ownerID {
		return fmt.Errorf("%w: page %s belongs to another user", model.ErrPermissionDenied, id)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return unavailable("deleting page", err)
	}
	return nil
}

// SlugAvailable reports whether ownerID could publish a page under slug
// without a conflict. exceptID excludes the page being edited.
func (s *PageStore) SlugAvailable(ctx context.Context, ownerID, slug, exceptID string) (bool, error) {
	taken, err := slugTaken(ctx, s.db, ownerID, slug, exceptID)
	return !taken, err
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// slugTaken reports whether slug is held by another live page or by a page
// another owner unpublished.
func slugTaken(ctx context.Context, q queryRower, ownerID, slug, exceptID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages
		WHERE slug = ? AND id <> ?
		AND (status = 'published' OR (status = 'unpublished' AND owner_id <> ?))`,
		slug, exceptID, ownerID).Scan(&n)
	if err != nil {
		return false, unavailable("checking slug", err)
	}
	return n > 0, nil
}
