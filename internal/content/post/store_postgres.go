// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package post

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendorahq/vendora/internal/platform/database/schema"
	"github.com/vendorahq/vendora/internal/platform/dberr"
)

// PostgresRepository implements [Repository] over content.post.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of [Repository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(ctx context.Context, post *Post) error {
	t := schema.ContentPost
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.Table,
		t.ID, t.AuthorID, t.Title, t.Slug, t.Excerpt, t.Body,
		t.Status, t.PublishedAt, t.CreatedAt, t.UpdatedAt,
	)

	_, err := repository.db.Exec(ctx, query,
		post.ID, post.AuthorID, post.Title, post.Slug, post.Excerpt, post.Body,
		post.Status, post.PublishedAt, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}

	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, post *Post) error {
	t := schema.ContentPost
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1 AND %s IS NULL`,
		t.Table,
		t.Title, t.Slug, t.Excerpt, t.Body, t.Status, t.PublishedAt, t.UpdatedAt,
		t.ID, t.DeletedAt,
	)

	tag, err := repository.db.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Excerpt, post.Body,
		post.Status, post.PublishedAt, post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_post")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	t := schema.ContentPost
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		t.Table, t.DeletedAt, t.ID, t.DeletedAt)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "soft_delete_post")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	t := schema.ContentPost
	query := fmt.Sprintf(`%s WHERE %s = $1 AND %s IS NULL`, selectClause(), t.ID, t.DeletedAt)

	post, err := repository.scanOne(ctx, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_id")
	}
	return post, nil
}

func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	t := schema.ContentPost
	query := fmt.Sprintf(`%s WHERE %s = $1 AND %s IS NULL`, selectClause(), t.Slug, t.DeletedAt)

	post, err := repository.scanOne(ctx, query, slug)
	if err != nil {
		return nil, dberr.Wrap(err, "get_post_by_slug")
	}
	return post, nil
}

func (repository *PostgresRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	t := schema.ContentPost
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s IS NULL AND ($2 = '' OR %s <> $2)
		)`,
		t.Table, t.Slug, t.DeletedAt, t.ID,
	)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "post_slug_exists")
	}

	return exists, nil
}

func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Post, int, error) {
	t := schema.ContentPost

	// $1 = status filter ('' means any), $2 = author filter ('' means any).
	where := fmt.Sprintf(`WHERE %s IS NULL AND ($1 = '' OR %s = $1) AND ($2 = '' OR %s = $2)`,
		t.DeletedAt, t.Status, t.AuthorID)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, t.Table, where)

	var total int
	if err := repository.db.QueryRow(ctx, countQuery, string(filter.Status), filter.AuthorID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	listQuery := fmt.Sprintf(`%s %s ORDER BY %s DESC LIMIT $3 OFFSET $4`,
		selectClause(), where, t.CreatedAt)

	rows, err := repository.db.Query(ctx, listQuery, string(filter.Status), filter.AuthorID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0)
	for rows.Next() {
		post := &Post{}
		if err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Excerpt,
			&post.Body, &post.Status, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}

	return posts, total, nil
}

// scanOne runs a single-row query built from [selectClause].
func (repository *PostgresRepository) scanOne(ctx context.Context, query string, arg any) (*Post, error) {
	post := &Post{}
	err := repository.db.QueryRow(ctx, query, arg).Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Slug, &post.Excerpt,
		&post.Body, &post.Status, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

// selectClause is the shared SELECT for full entity hydration.
func selectClause() string {
	t := schema.ContentPost
	return fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s`,
		t.ID, t.AuthorID, t.Title, t.Slug, t.Excerpt, t.Body,
		t.Status, t.PublishedAt, t.CreatedAt, t.UpdatedAt, t.Table,
	)
}
