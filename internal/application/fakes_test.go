package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"localebatch/internal/domain/entities"
)

type fakeGenerator struct {
	requests []entities.TranslationRequest
	respond  func(req entities.TranslationRequest) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, req entities.TranslationRequest) (string, error) {
	g.requests = append(g.requests, req)
	return g.respond(req)
}

type fakeRenderer struct{}

func (fakeRenderer) Instruction(format entities.Format, languageName, brand string) (string, error) {
	return fmt.Sprintf("Translate the following %s content to %s. Keep %q.", format, languageName, brand), nil
}

type countingPacer struct {
	waits    int
	cancelAt int
	cancel   context.CancelFunc
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	if p.cancel != nil && p.waits == p.cancelAt {
		p.cancel()
	}
	return ctx.Err()
}

type memStore struct {
	mu        sync.Mutex
	sources   map[string][]byte
	files     map[string][]byte
	failPaths map[string]bool
}

func newMemStore(sources map[string]string) *memStore {
	s := &memStore{sources: map[string][]byte{}, files: map[string][]byte{}, failPaths: map[string]bool{}}
	for k, v := range sources {
		s.sources[k] = []byte(v)
	}
	return s
}

func (s *memStore) Read(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.sources[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return b, nil
}

func (s *memStore) Write(_ context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPaths[path] {
		return errors.New("disk full")
	}
	s.files[path] = append([]byte(nil), data...)
	return nil
}

type fakeOutcomes struct {
	recorded []entities.Outcome
	runIDs   map[string]bool
	err      error
	latest   []entities.Outcome
}

func (f *fakeOutcomes) Record(_ context.Context, runID, _ string, outcome entities.Outcome) error {
	if f.runIDs == nil {
		f.runIDs = map[string]bool{}
	}
	f.runIDs[runID] = true
	f.recorded = append(f.recorded, outcome)
	return f.err
}

func (f *fakeOutcomes) LatestByJob(context.Context, string) ([]entities.Outcome, error) {
	return f.latest, f.err
}

type fakeNotifier struct {
	reports []*entities.Report
	err     error
}

func (n *fakeNotifier) Notify(_ context.Context, report *entities.Report) error {
	n.reports = append(n.reports, report)
	return n.err
}
