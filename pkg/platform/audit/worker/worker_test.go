package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"hotelchain/pkg/platform/audit/store/postgres"
	"hotelchain/pkg/platform/tx"
)

type fakeOutbox struct {
	entries   []postgres.Entry
	published map[uuid.UUID]time.Time
}

func (f *fakeOutbox) FetchUnpublished(_ context.Context, limit int) ([]postgres.Entry, error) {
	var out []postgres.Entry
	for _, e := range f.entries {
		if _, done := f.published[e.ID]; done {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	for _, v := range ids {
		f.published[v] = at
	}
	return nil
}

type fakeSink struct {
	records []Record
	err     error
}

func (f *fakeSink) Publish(_ context.Context, records ...Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, records...)
	return nil
}

type RelaySuite struct {
	suite.Suite
	outbox *fakeOutbox
	sink   *fakeSink
	relay  *Relay
	now    time.Time
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	s.now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.outbox = &fakeOutbox{published: map[uuid.UUID]time.Time{}}
	for i := 0; i < 3; i++ {
		s.outbox.entries = append(s.outbox.entries, postgres.Entry{
			ID:          uuid.New(),
			AggregateID: "user-1",
			EventType:   "guest_checked_in",
			Payload:     []byte(`{"action":"guest_checked_in"}`),
		})
	}
	s.sink = &fakeSink{}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.relay = NewRelay(s.outbox, s.sink, tx.NewLockRunner(), logger,
		WithBatchSize(2), WithClock(func() time.Time { return s.now }))
}

func (s *RelaySuite) TestRelaysInBatches() {
	n, err := s.relay.RelayOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.relay.RelayOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.relay.RelayOnce(context.Background())
	s.Require().NoError(err)
	s.Zero(n)

	s.Len(s.sink.records, 3)
	s.Equal("guest_checked_in", s.sink.records[0].Headers["event_type"])
	s.Equal(s.now, s.outbox.published[s.outbox.entries[0].ID])
}

func (s *RelaySuite) TestFailedPublishLeavesEntriesPending() {
	s.sink.err = errors.New("broker down")

	_, err := s.relay.RelayOnce(context.Background())
	s.Require().Error(err)
	s.Empty(s.outbox.published)
}
