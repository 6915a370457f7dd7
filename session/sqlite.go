package session

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/memory"
)

type (
	// SqliteStore persists short-term memories so a conversation can resume
	// after a restart. Records are still plain rows; STM is never vectorized.
	SqliteStore struct {
		db *gorm.DB
	}

	SqliteSessionRecord struct {
		ID        string `gorm:"primaryKey"`
		CreatedAt time.Time

		ConversationID string `gorm:"index"`
		UserID         string `gorm:"index"`
		Content        string
		Metadata       datatypes.JSONType[map[string]any]
	}
)

func (SqliteSessionRecord) TableName() string {
	return "session_memories"
}

var (
	_ Store = (*SqliteStore)(nil)
)

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL", dbPath)),
		&gorm.Config{},
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to open session database: %v", err)
	}

	if err := db.AutoMigrate(&SqliteSessionRecord{}); err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to migrate session table: %v", err)
	}

	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Append(ctx context.Context, conversationID string, record *memory.Record) error {
	if conversationID == "" {
		return errors.Wrapf(errors.ErrValidation, "conversation id must not be empty")
	}
	if record == nil {
		return errors.Wrapf(errors.ErrValidation, "record must not be nil")
	}
	if record.Level != memory.LevelShortTerm {
		return errors.Wrapf(errors.ErrValidation, "session store only accepts STM records, got %q", string(record.Level))
	}
	if err := record.Validate(); err != nil {
		return err
	}

	row := SqliteSessionRecord{
		ID:             record.ID,
		CreatedAt:      record.CreatedAt,
		ConversationID: conversationID,
		UserID:         record.UserID,
		Content:        record.Content,
		Metadata:       datatypes.NewJSONType(record.Metadata()),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(errors.ErrStorage, "failed to save session memory: %v", err)
	}
	return nil
}

func (s *SqliteStore) List(ctx context.Context, conversationID string) ([]*memory.Record, error) {
	var rows []SqliteSessionRecord
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to list session memories: %v", err)
	}

	records := make([]*memory.Record, 0, len(rows))
	for _, row := range rows {
		record, err := memory.RecordFromMetadata(row.Content, row.Metadata.Data())
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *SqliteStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.db.WithContext(ctx).
		Delete(&SqliteSessionRecord{}, "conversation_id = ?", conversationID).Error; err != nil {
		return errors.Wrapf(errors.ErrStorage, "failed to clear session memories: %v", err)
	}
	return nil
}

func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
