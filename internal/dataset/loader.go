package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meur/skyatlas/internal/models"
)

// ErrLoading is returned by Dataset until the load resolves
var ErrLoading = errors.New("dataset is still loading")

// State of the one-shot load
type State int

const (
	Loading State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Loader issues a single load of its source in the background and keeps the outcome.
// There is no retry: a failed load stays failed for the life of the process.
type Loader struct {
	source Source
	logger *zap.Logger

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	state State
	data  *models.Dataset
	err   error
}

func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source: source,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the load. Later calls are no-ops. The load is detached from
// ctx cancellation: once issued it runs to completion.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		ctx = context.WithoutCancel(ctx)
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)

	t0 := time.Now()
	l.logger.Info("loading dataset")
	data, err := l.source.Load(ctx)
	if err == nil && data == nil {
		err = errors.New("source returned no dataset")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state, l.err = Failed, err
		l.logger.Error("dataset load failed", zap.Error(err), zap.Duration("elapsed", time.Since(t0)))
		return
	}
	l.state, l.data = Loaded, data
	l.logger.Info("dataset loaded",
		zap.Int("ships", len(data.Ships)),
		zap.Int("outfits", len(data.Outfits)),
		zap.Int("modifications", len(data.ShipModifications)),
		zap.Duration("elapsed", time.Since(t0)),
	)
}

// State reports loading, loaded or failed
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Dataset returns the snapshot once loaded, ErrLoading before that and the load error after a failure
func (l *Loader) Dataset() (*models.Dataset, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.state {
	case Loaded:
		return l.data, nil
	case Failed:
		return nil, l.err
	}
	return nil, ErrLoading
}

// Done is closed when the load resolves either way
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the load resolves or ctx ends
func (l *Loader) Wait(ctx context.Context) (*models.Dataset, error) {
	select {
	case <-l.done:
		return l.Dataset()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
