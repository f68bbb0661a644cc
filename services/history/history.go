// Package history keeps a record of the searches served by the API. Only the
// query and counts are kept; results and scores are never stored.
package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/booksearch/db/kvdb"
	"github.com/meghashyamc/booksearch/logger"
)

type Record struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Limit     int       `json:"limit"`
	Hits      int       `json:"hits"`
	Took      string    `json:"took"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	logger logger.Logger
	store  kvdb.DB
}

func New(logger logger.Logger, store kvdb.DB) *Service {
	return &Service{
		logger: logger,
		store:  store,
	}
}

// Record stores a new search record under a fresh id.
func (s *Service) Record(query string, limit int, hits int, took time.Duration) (*Record, error) {
	record := &Record{
		ID:        uuid.New().String(),
		Query:     query,
		Limit:     limit,
		Hits:      hits,
		Took:      took.String(),
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Error("failed to marshal search record", "id", record.ID, "err", err.Error())
		return nil, fmt.Errorf("failed to marshal search record: %w", err)
	}

	if err := s.store.Set(kvdb.SearchesBucket, record.ID, string(data)); err != nil {
		s.logger.Error("failed to save search record", "id", record.ID, "err", err.Error())
		return nil, fmt.Errorf("failed to save search record: %w", err)
	}

	return record, nil
}

// Get returns the record with the given id. A missing record yields an error
// matching kvdb.ErrNotFound.
func (s *Service) Get(id string) (*Record, error) {
	value, err := s.store.Get(kvdb.SearchesBucket, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get search record %s: %w", id, err)
	}

	var record Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		s.logger.Error("failed to unmarshal search record", "id", id, "err", err.Error())
		return nil, fmt.Errorf("failed to unmarshal search record %s: %w", id, err)
	}

	return &record, nil
}

// List returns every stored record, newest first. Records that cannot be
// decoded are logged and left out.
func (s *Service) List() ([]*Record, error) {
	ids, err := s.store.GetAllKeys(kvdb.SearchesBucket)
	if err != nil {
		s.logger.Error("failed to list search records", "err", err.Error())
		return nil, fmt.Errorf("failed to list search records: %w", err)
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record, err := s.Get(id)
		if err != nil {
			s.logger.Warn("skipping unreadable search record", "id", id, "err", err.Error())
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// Delete removes the record with the given id and returns it. A missing record
// yields an error matching kvdb.ErrNotFound.
func (s *Service) Delete(id string) (*Record, error) {
	record, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(kvdb.SearchesBucket, id); err != nil {
		s.logger.Error("failed to delete search record", "id", id, "err", err.Error())
		return nil, fmt.Errorf("failed to delete search record %s: %w", id, err)
	}

	return record, nil
}
