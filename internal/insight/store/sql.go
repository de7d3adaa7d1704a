package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/demandcast/internal/insight/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is the relational row backing one insight record.
type Document struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false"`
	ProductID int64          `gorm:"not null;index"`
	Body      datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

func (Document) TableName() string { return "insight_documents" }

// SQLStore keeps insight documents as JSON bodies in the relational database.
type SQLStore struct {
	db    *gorm.DB
	genID *snowflake.Node
}

var _ domain.Store = (*SQLStore)(nil)

func NewSQLStore(db *gorm.DB, genID *snowflake.Node) *SQLStore {
	return &SQLStore{db: db, genID: genID}
}

func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Exec(`DELETE FROM insight_documents`)
	return res.RowsAffected, res.Error
}

func (s *SQLStore) InsertOne(ctx context.Context, record domain.InsightRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	doc := Document{
		ID:        s.genID.Generate().Int64(),
		ProductID: record.ProductID,
		Body:      datatypes.JSON(body),
		CreatedAt: record.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&doc).Error
}

func (s *SQLStore) FindAll(ctx context.Context) ([]domain.InsightRecord, error) {
	var docs []Document
	if err := s.db.WithContext(ctx).Order("product_id ASC, id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}

	records := make([]domain.InsightRecord, 0, len(docs))
	for _, doc := range docs {
		var record domain.InsightRecord
		if err := json.Unmarshal(doc.Body, &record); err != nil {
			return nil, fmt.Errorf("decode insight %d: %w", doc.ID, err)
		}
		records = append(records, record)
	}
	return records, nil
}
