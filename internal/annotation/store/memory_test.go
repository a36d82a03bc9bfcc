package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	docID uuid.UUID
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.docID = uuid.New()
}

func (s *InMemorySuite) TestUpsertCreatesThenReplaces() {
	now := time.Now().UTC()
	first, err := s.store.Upsert(s.ctx, s.docID, 3, json.RawMessage(`{"strokes":[1]}`), now)
	s.Require().NoError(err)

	later := now.Add(time.Minute)
	second, err := s.store.Upsert(s.ctx, s.docID, 3, json.RawMessage(`{"strokes":[1,2]}`), later)
	s.Require().NoError(err)

	// Same row: id and created_at survive, payload and updated_at move.
	s.Equal(first.ID, second.ID)
	s.Equal(first.CreatedAt, second.CreatedAt)
	s.JSONEq(`{"strokes":[1,2]}`, string(second.Data))
	s.Equal(later, second.UpdatedAt)

	anns, err := s.store.ListByDocument(s.ctx, s.docID)
	s.Require().NoError(err)
	s.Require().Len(anns, 1)
	s.JSONEq(`{"strokes":[1,2]}`, string(anns[0].Data))
}

func (s *InMemorySuite) TestListOrdersByPageAscending() {
	now := time.Now().UTC()
	for _, page := range []int{7, 0, 3, 12, 1} {
		_, err := s.store.Upsert(s.ctx, s.docID, page, json.RawMessage(`{}`), now)
		s.Require().NoError(err)
	}

	anns, err := s.store.ListByDocument(s.ctx, s.docID)
	s.Require().NoError(err)
	s.Require().Len(anns, 5)
	pages := make([]int, len(anns))
	for i, a := range anns {
		pages[i] = a.PageNumber
	}
	s.Equal([]int{0, 1, 3, 7, 12}, pages)
}

func (s *InMemorySuite) TestListScopedToDocument() {
	now := time.Now().UTC()
	other := uuid.New()
	_, err := s.store.Upsert(s.ctx, s.docID, 1, json.RawMessage(`{"a":1}`), now)
	s.Require().NoError(err)
	_, err = s.store.Upsert(s.ctx, other, 1, json.RawMessage(`{"b":2}`), now)
	s.Require().NoError(err)

	anns, err := s.store.ListByDocument(s.ctx, s.docID)
	s.Require().NoError(err)
	s.Require().Len(anns, 1)
	s.JSONEq(`{"a":1}`, string(anns[0].Data))
}

func (s *InMemorySuite) TestDeleteByDocument() {
	now := time.Now().UTC()
	_, err := s.store.Upsert(s.ctx, s.docID, 1, json.RawMessage(`{}`), now)
	s.Require().NoError(err)
	_, err = s.store.Upsert(s.ctx, s.docID, 2, json.RawMessage(`{}`), now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteByDocument(s.ctx, s.docID))

	anns, err := s.store.ListByDocument(s.ctx, s.docID)
	s.Require().NoError(err)
	s.Empty(anns)

	// Idempotent.
	s.Require().NoError(s.store.DeleteByDocument(s.ctx, s.docID))
}

func (s *InMemorySuite) TestConcurrentUpsertsLeaveOneRow() {
	now := time.Now().UTC()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]int{"writer": i})
			_, err := s.store.Upsert(s.ctx, s.docID, 5, payload, now)
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	anns, err := s.store.ListByDocument(s.ctx, s.docID)
	s.Require().NoError(err)
	s.Len(anns, 1)
}
