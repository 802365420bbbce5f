// Package view holds the dashboard state: the current record set and the
// current selection.
package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mplm/rundash/pkg/ingest"
	"github.com/mplm/rundash/pkg/record"
)

var (
	// ErrSuperseded is returned by a load whose result was discarded because a newer load started.
	ErrSuperseded = errors.New("load superseded by a newer load")
	ErrClosed     = errors.New("view state is closed")
)

type Status int

const (
	Empty Status = iota
	Loaded
)

func (s Status) String() string {
	if s == Loaded {
		return "loaded"
	}

	return "empty"
}

type Options struct {
	// AutoSelectFirst selects the first ingested record after every successful load.
	AutoSelectFirst bool
}

// State is safe for concurrent use. The record set is replaced as a whole on
// every successful load and the selection is reset at the same time.
type State struct {
	logger  *logrus.Logger
	loader  ingest.Loader
	options Options

	mu         sync.Mutex
	generation uint64
	status     Status
	records    []record.Record
	index      map[int64]int
	skipped    []ingest.RowError
	selected   *record.Record
	closed     bool
	ctx        context.Context //nolint:containedctx
	cancel     context.CancelFunc
}

func New(logger *logrus.Logger, loader ingest.Loader, options Options) *State {
	ctx, cancel := context.WithCancel(context.Background())

	return &State{
		logger:  logger,
		loader:  loader,
		options: options,
		records: make([]record.Record, 0),
		index:   make(map[int64]int),
		skipped: make([]ingest.RowError, 0),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Reload runs the loader and commits its result unless another Reload was
// started in the meantime or the state was closed. A failed load leaves the
// previous record set and selection untouched.
func (s *State) Reload(ctx context.Context) (*ingest.Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}

	s.generation++
	generation := s.generation
	lifetime := s.ctx
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(lifetime, cancel)
	defer stop()

	result, err := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		s.logger.Debugf("Discarding load %d: state closed", generation)
		return nil, ErrClosed
	case generation != s.generation:
		s.logger.Debugf("Discarding load %d: superseded by load %d", generation, s.generation)
		return nil, ErrSuperseded
	case err != nil:
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	s.commit(result)

	return result, nil
}

func (s *State) commit(result *ingest.Result) {
	index := make(map[int64]int, len(result.Records))
	for position, rec := range result.Records {
		index[rec.ID] = position
	}

	s.records = result.Records
	s.index = index
	s.skipped = result.Skipped
	s.status = Loaded
	s.selected = nil

	if s.options.AutoSelectFirst && len(s.records) > 0 {
		first := s.records[0]
		s.selected = &first
	}
}

// Close discards any in-flight load and rejects further loads.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cancel()
}

func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Snapshot is a consistent copy of the state taken under a single lock.
type Snapshot struct {
	Status  Status
	Records []record.Record
	Skipped []ingest.RowError
}

// Snapshot returns the status, record set and skipped rows of the same load.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Status:  s.status,
		Records: slices.Clone(s.records),
		Skipped: slices.Clone(s.skipped),
	}
}

// Records returns the current record set in ingestion order.
func (s *State) Records() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record.Record, len(s.records))
	copy(out, s.records)

	return out
}

func (s *State) Lookup(id int64) (record.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.index[id]
	if !ok {
		return record.Record{}, false
	}

	return s.records[position], true
}

// Select makes the record with id the current selection. An id that is not in
// the current set is ignored and false is returned.
func (s *State) Select(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.index[id]
	if !ok {
		return false
	}

	selected := s.records[position]
	s.selected = &selected

	return true
}

func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
}

func (s *State) Selection() (record.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return record.Record{}, false
	}

	return *s.selected, true
}
