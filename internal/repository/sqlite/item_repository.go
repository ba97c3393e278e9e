package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository implementation
func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Get(ctx context.Context, id string) (*models.Item, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("getting item: id=%s", id)

	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM items WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found: id=%s", id)
			return nil, nil
		}
		log.Error("failed to get item: %v", err)
		return nil, err
	}
	var item models.Item
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		log.Error("failed to decode item doc: %v", err)
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	return r.list(ctx, `SELECT doc FROM items ORDER BY name ASC, id ASC`)
}

func (r *itemRepository) ListByKind(ctx context.Context, kind string) ([]models.Item, error) {
	return r.list(ctx, `SELECT doc FROM items WHERE kind = ? ORDER BY name ASC, id ASC`, kind)
}

func (r *itemRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Item, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list items: %v", err)
		return nil, err
	}
	defer rows.Close()
	var items []models.Item
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			log.Error("failed to scan item row: %v", err)
			return nil, err
		}
		var item models.Item
		if err := json.Unmarshal([]byte(doc), &item); err != nil {
			log.Error("failed to decode item doc: %v", err)
			return nil, err
		}
		items = append(items, item)
	}
	log.Debug("found %d items", len(items))
	return items, rows.Err()
}

func (r *itemRepository) Put(ctx context.Context, item models.Item) error {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("putting item: id=%s, kind=%s", item.ID, item.Kind)

	doc, err := json.Marshal(item)
	if err != nil {
		log.Error("failed to marshal item: %v", err)
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO items (id, kind, name, doc, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    kind = excluded.kind,
    name = excluded.name,
    doc = excluded.doc,
    updated_at = excluded.updated_at
`, item.ID, item.Kind, item.Name, string(doc), item.CreatedAt, item.UpdatedAt)
	if err != nil {
		log.Error("failed to put item: %v", err)
	}
	return err
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("deleting item: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete item: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
