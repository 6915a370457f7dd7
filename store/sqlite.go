package store

import (
	"context"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/habiliai/caremem/errors"
)

type (
	// SqliteBackend persists collections in SQLite with the sqlite-vec
	// extension for nearest-neighbor search. All collections share one vector
	// table, so they must share one embedding dimension.
	SqliteBackend struct {
		db     *gorm.DB
		vecDim int
	}

	SqliteCollectionRecord struct {
		Name      string `gorm:"primaryKey"`
		Dimension int
		CreatedAt time.Time
	}

	SqliteMemoryRecord struct {
		ID        string `gorm:"primaryKey"`
		CreatedAt time.Time
		UpdatedAt time.Time

		Collection string `gorm:"index"`
		UserID     string `gorm:"index"`
		Content    string
		Metadata   datatypes.JSONType[map[string]any]
	}
)

func (SqliteCollectionRecord) TableName() string {
	return "collections"
}

func (SqliteMemoryRecord) TableName() string {
	return "memories"
}

var (
	_ Backend = (*SqliteBackend)(nil)
)

// NewSqliteBackend opens (or creates) the database at dbPath and prepares the
// vector table for embeddings of the given dimension.
func NewSqliteBackend(dbPath string, dimension int) (*SqliteBackend, error) {
	sqlite_vec.Auto()

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on", dbPath)),
		&gorm.Config{},
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to open sqlite database: %v", err)
	}

	backend := &SqliteBackend{
		db:     db,
		vecDim: dimension,
	}

	if err := db.AutoMigrate(&SqliteCollectionRecord{}, &SqliteMemoryRecord{}); err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to migrate memory tables: %v", err)
	}

	if err := backend.createVectorTable(); err != nil {
		return nil, err
	}

	return backend, nil
}

func (b *SqliteBackend) createVectorTable() error {
	var sqliteVersion, vecVersion string
	if err := b.db.Raw("SELECT sqlite_version(), vec_version()").Row().Scan(&sqliteVersion, &vecVersion); err != nil {
		return errors.Wrapf(errors.ErrStorage, "sqlite-vec extension not properly loaded: %v", err)
	}

	createTableSQL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS memory_vectors USING vec0(
			document_id TEXT PRIMARY KEY,
			embedding float[%d]
		);
	`, b.vecDim)

	if err := b.db.Exec(createTableSQL).Error; err != nil {
		return errors.Wrapf(errors.ErrStorage, "failed to create memory_vectors table: %v", err)
	}

	return nil
}

func (b *SqliteBackend) EnsureCollection(ctx context.Context, name string, dimension int) error {
	if dimension != b.vecDim {
		return errors.Wrapf(errors.ErrStorage,
			"collection %q needs dimension %d but this backend stores %d",
			name, dimension, b.vecDim)
	}

	var existing SqliteCollectionRecord
	err := b.db.WithContext(ctx).First(&existing, "name = ?", name).Error
	if err == nil {
		if existing.Dimension != dimension {
			return errors.Wrapf(errors.ErrStorage,
				"collection %q already exists with dimension %d, requested %d",
				name, existing.Dimension, dimension)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(errors.ErrStorage, "failed to look up collection %q: %v", name, err)
	}

	record := SqliteCollectionRecord{
		Name:      name,
		Dimension: dimension,
	}
	if err := b.db.WithContext(ctx).Create(&record).Error; err != nil {
		return errors.Wrapf(errors.ErrStorage, "failed to create collection %q: %v", name, err)
	}
	return nil
}

func (b *SqliteBackend) Insert(ctx context.Context, collection, id, content string, vector []float32, metadata map[string]any) error {
	if len(vector) != b.vecDim {
		return errors.Wrapf(errors.ErrStorage,
			"embedding dimension %d does not match vector table dimension %d",
			len(vector), b.vecDim)
	}

	userID, _ := metadata["user_id"].(string)

	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := SqliteMemoryRecord{
			ID:         id,
			Collection: collection,
			UserID:     userID,
			Content:    content,
			Metadata:   datatypes.NewJSONType(metadata),
		}
		if err := tx.Save(&record).Error; err != nil {
			return errors.Wrapf(errors.ErrStorage, "failed to save memory record: %v", err)
		}

		if err := tx.Exec("DELETE FROM memory_vectors WHERE document_id = ?", id).Error; err != nil {
			return errors.Wrapf(errors.ErrStorage, "failed to delete existing vector: %v", err)
		}

		serialized, err := sqlite_vec.SerializeFloat32(vector)
		if err != nil {
			return errors.Wrapf(errors.ErrStorage, "failed to serialize embedding: %v", err)
		}

		if err := tx.Exec("INSERT INTO memory_vectors (document_id, embedding) VALUES (?, ?)", id, serialized).Error; err != nil {
			return errors.Wrapf(errors.ErrStorage, "failed to insert memory vector: %v", err)
		}

		return nil
	})
}

func (b *SqliteBackend) Query(ctx context.Context, collection string, vector []float32, limit int, filter Filter) ([]Hit, error) {
	if len(vector) != b.vecDim {
		return nil, errors.Wrapf(errors.ErrStorage,
			"query embedding dimension %d does not match vector table dimension %d",
			len(vector), b.vecDim)
	}

	// The MATCH operator cannot join against the records table, so candidate
	// ids are resolved first and pushed into the vector query.
	candidateQuery := b.db.WithContext(ctx).
		Model(&SqliteMemoryRecord{}).
		Where("collection = ?", collection)
	if filter.UserID != "" {
		candidateQuery = candidateQuery.Where("user_id = ?", filter.UserID)
	}

	var candidateIDs []string
	if err := candidateQuery.Pluck("id", &candidateIDs).Error; err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to resolve candidate memories: %v", err)
	}
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	serialized, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to serialize query embedding: %v", err)
	}

	searchSQL := `
		SELECT document_id, distance
		FROM memory_vectors
		WHERE embedding MATCH ? AND document_id IN ?
		ORDER BY distance
		LIMIT ?
	`
	rows, err := b.db.WithContext(ctx).Raw(searchSQL, serialized, candidateIDs, limit).Rows()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to execute vector search: %v", err)
	}
	defer rows.Close()

	distances := make(map[string]float32)
	var orderedIDs []string
	for rows.Next() {
		var id string
		var distance float32
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, errors.Wrapf(errors.ErrStorage, "failed to scan search row: %v", err)
		}
		distances[id] = distance
		orderedIDs = append(orderedIDs, id)
	}
	if len(orderedIDs) == 0 {
		return nil, nil
	}

	var records []SqliteMemoryRecord
	if err := b.db.WithContext(ctx).Where("id IN ?", orderedIDs).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to fetch memory records: %v", err)
	}

	byID := make(map[string]*SqliteMemoryRecord, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	hits := make([]Hit, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		record, ok := byID[id]
		if !ok {
			continue
		}

		score := 1.0 - distances[id]
		if score < 0 {
			score = 0
		}

		hits = append(hits, Hit{
			ID:       record.ID,
			Content:  record.Content,
			Metadata: record.Metadata.Data(),
			Score:    score,
		})
	}

	return hits, nil
}

func (b *SqliteBackend) Delete(ctx context.Context, collection, id string) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM memory_vectors WHERE document_id = ?", id).Error; err != nil {
			return errors.Wrapf(errors.ErrStorage, "failed to delete memory vector: %v", err)
		}
		if err := tx.Delete(&SqliteMemoryRecord{}, "id = ? AND collection = ?", id, collection).Error; err != nil {
			return errors.Wrapf(errors.ErrStorage, "failed to delete memory record: %v", err)
		}
		return nil
	})
}

func (b *SqliteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
