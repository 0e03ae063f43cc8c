package importer

import (
	"context"
	"time"
)

type InMemoryRecordRepository struct {
	records []*ImportRecord
	nextID  int64
}

func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{nextID: 1}
}

func (r *InMemoryRecordRepository) Create(ctx context.Context, record *ImportRecord) error {
	record.ID = r.nextID
	r.nextID++
	record.CreatedAt = time.Now()

	copy := *record
	r.records = append(r.records, &copy)
	return nil
}

func (r *InMemoryRecordRepository) Latest(ctx context.Context, url string) (*ImportRecord, error) {
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].URL == url {
			copy := *r.records[i]
			return &copy, nil
		}
	}
	return nil, ErrNoRecord
}

func (r *InMemoryRecordRepository) LatestAny(ctx context.Context) (*ImportRecord, error) {
	if len(r.records) == 0 {
		return nil, ErrNoRecord
	}
	copy := *r.records[len(r.records)-1]
	return &copy, nil
}
