package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type lectureRepository struct {
	db *sql.DB
}

// NewLectureRepository creates a new LectureRepository implementation
func NewLectureRepository(db *sql.DB) repository.LectureRepository {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) Get(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("lecture_repo")
	key := models.LectureKey(blockID, lectureID)
	log.Debug("getting lecture: key=%s", key)

	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM lectures WHERE key = ?`, key).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("lecture not found: key=%s", key)
			return nil, nil
		}
		log.Error("failed to get lecture: %v", err)
		return nil, err
	}
	return decodeLecture(doc)
}

func (r *lectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("lecture_repo")
	log.Debug("listing lectures with filter: block=%s, state=%s", filter.BlockID, filter.State)

	query := sqlBuilder.Select("doc").From("lectures")

	// Dynamic WHERE clauses
	if filter.BlockID != "" {
		query = query.Where(squirrel.Eq{"block_id": filter.BlockID})
	}
	if filter.State != "" {
		query = query.Where(squirrel.Eq{"state": filter.State})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.And{
			squirrel.NotEq{"next_due_at": nil},
			squirrel.LtOrEq{"next_due_at": *filter.DueBefore},
		})
	}

	query = query.OrderBy("block_id ASC", "lecture_id ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list lectures: %v", err)
		return nil, err
	}
	defer rows.Close()
	lectures, err := scanLectures(rows)
	if err != nil {
		log.Error("failed to scan lecture rows: %v", err)
		return nil, err
	}
	log.Debug("found %d lectures", len(lectures))
	return lectures, rows.Err()
}

func (r *lectureRepository) ListByBlock(ctx context.Context, blockID string) ([]models.LectureRecord, error) {
	return r.List(ctx, models.LectureFilter{BlockID: blockID})
}

func (r *lectureRepository) Put(ctx context.Context, record models.LectureRecord) error {
	log := logger.FromContext(ctx).WithPrefix("lecture_repo")
	log.Debug("putting lecture: key=%s, state=%s", record.Key, record.Status.State)

	doc, err := json.Marshal(record)
	if err != nil {
		log.Error("failed to marshal lecture: %v", err)
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO lectures (key, block_id, lecture_id, name, state, next_due_at, doc)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    name = excluded.name,
    state = excluded.state,
    next_due_at = excluded.next_due_at,
    doc = excluded.doc,
    updated_at = CURRENT_TIMESTAMP
`, record.Key, record.BlockID, record.ID, record.Name, record.Status.State, nullableInt64(record.NextDueAt), string(doc))
	if err != nil {
		log.Error("failed to put lecture: %v", err)
	}
	return err
}

func (r *lectureRepository) PutMany(ctx context.Context, records []models.LectureRecord) error {
	log := logger.FromContext(ctx).WithPrefix("lecture_repo")
	log.Debug("putting %d lectures", len(records))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		for _, record := range records {
			doc, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if _, err := t.ExecContext(ctx, `
INSERT INTO lectures (key, block_id, lecture_id, name, state, next_due_at, doc)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    name = excluded.name,
    state = excluded.state,
    next_due_at = excluded.next_due_at,
    doc = excluded.doc,
    updated_at = CURRENT_TIMESTAMP
`, record.Key, record.BlockID, record.ID, record.Name, record.Status.State, nullableInt64(record.NextDueAt), string(doc)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *lectureRepository) Delete(ctx context.Context, blockID, lectureID string) error {
	log := logger.FromContext(ctx).WithPrefix("lecture_repo")
	key := models.LectureKey(blockID, lectureID)
	log.Debug("deleting lecture: key=%s", key)

	res, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE key = ?`, key)
	if err != nil {
		log.Error("failed to delete lecture: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *lectureRepository) DeleteByBlock(ctx context.Context, blockID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("lecture_repo")
	log.Debug("deleting lectures for block: %s", blockID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE block_id = ?`, blockID)
	if err != nil {
		log.Error("failed to delete lectures for block: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("deleted %d lectures for block %s", n, blockID)
	return int(n), nil
}

func decodeLecture(doc string) (*models.LectureRecord, error) {
	var record models.LectureRecord
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func scanLectures(rows *sql.Rows) ([]models.LectureRecord, error) {
	var lectures []models.LectureRecord
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		record, err := decodeLecture(doc)
		if err != nil {
			return nil, err
		}
		lectures = append(lectures, *record)
	}
	return lectures, nil
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
