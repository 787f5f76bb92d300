package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRelayer struct{ mock.Mock }

func (m *MockRelayer) Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayOutboxResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RelayOutboxResult), args.Error(1)
}

type chanSource chan struct{}

func (c chanSource) Signals() <-chan struct{} { return c }

// runningSource records whether Run was driven.
type runningSource struct {
	chanSource
	running atomic.Bool
}

func (s *runningSource) Run(ctx context.Context) error {
	s.running.Store(true)
	<-ctx.Done()
	s.running.Store(false)
	return ctx.Err()
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRelayCommand(t *testing.T, batchSize int) commands.RelayOutboxCommand {
	t.Helper()
	cmd, err := commands.NewRelayOutboxCommand(batchSize)
	require.NoError(t, err)
	return cmd
}

func TestOutboxRelayJob_Trigger(t *testing.T) {
	t.Run("should stop after a partial batch", func(t *testing.T) {
		relayer := new(MockRelayer)
		cmd := newRelayCommand(t, 10)
		relayer.On("Handle", mock.Anything, cmd).Return(commands.RelayOutboxResult{Published: 3}, nil).Once()

		NewOutboxRelayJob(relayer, cmd, discard()).Trigger()

		relayer.AssertExpectations(t)
	})

	t.Run("should drain while batches are full", func(t *testing.T) {
		relayer := new(MockRelayer)
		cmd := newRelayCommand(t, 2)
		mock.InOrder(
			relayer.On("Handle", mock.Anything, cmd).Return(commands.RelayOutboxResult{Published: 2}, nil).Once(),
			relayer.On("Handle", mock.Anything, cmd).Return(commands.RelayOutboxResult{Published: 1, DeadLettered: 1}, nil).Once(),
			relayer.On("Handle", mock.Anything, cmd).Return(commands.RelayOutboxResult{}, nil).Once(),
		)

		NewOutboxRelayJob(relayer, cmd, discard()).Trigger()

		relayer.AssertExpectations(t)
	})

	t.Run("should not spin on a batch of deferred messages", func(t *testing.T) {
		relayer := new(MockRelayer)
		cmd := newRelayCommand(t, 2)
		relayer.On("Handle", mock.Anything, cmd).Return(commands.RelayOutboxResult{Deferred: 2}, nil).Once()

		NewOutboxRelayJob(relayer, cmd, discard()).Trigger()

		relayer.AssertExpectations(t)
	})

	t.Run("should give up when another pass is running", func(t *testing.T) {
		relayer := new(MockRelayer)
		cmd := newRelayCommand(t, 2)
		relayer.On("Handle", mock.Anything, cmd).
			Return(commands.RelayOutboxResult{}, commands.ErrRelayAlreadyRunning).Once()

		NewOutboxRelayJob(relayer, cmd, discard()).Trigger()

		relayer.AssertExpectations(t)
	})

	t.Run("should give up on failure", func(t *testing.T) {
		relayer := new(MockRelayer)
		cmd := newRelayCommand(t, 2)
		relayer.On("Handle", mock.Anything, cmd).
			Return(commands.RelayOutboxResult{}, errors.New("database is gone")).Once()

		NewOutboxRelayJob(relayer, cmd, discard()).Trigger()

		relayer.AssertExpectations(t)
	})

	t.Run("should not relay after stop", func(t *testing.T) {
		var calls atomic.Int32
		relayer := new(MockRelayer)
		relayer.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { calls.Add(1) }).
			Return(commands.RelayOutboxResult{}, nil).Maybe()
		job := NewOutboxRelayJob(relayer, newRelayCommand(t, 2), discard())
		require.NoError(t, job.Start())
		job.Stop()
		before := calls.Load()

		job.Trigger()

		assert.Equal(t, before, calls.Load())
	})

	t.Run("should let stop wait out triggers racing with it", func(t *testing.T) {
		var running, finished atomic.Int32
		relayer := new(MockRelayer)
		relayer.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				running.Add(1)
				time.Sleep(time.Millisecond)
				finished.Add(1)
			}).
			Return(commands.RelayOutboxResult{}, nil).Maybe()
		job := NewOutboxRelayJob(relayer, newRelayCommand(t, 2), discard())

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				job.Trigger()
			}()
		}
		job.Stop()
		stoppedAt := running.Load()

		assert.Equal(t, stoppedAt, finished.Load())
		wg.Wait()
		assert.Equal(t, stoppedAt, running.Load())
	})
}

func TestOutboxListenerJob(t *testing.T) {
	t.Run("should trigger on every signal", func(t *testing.T) {
		source := make(chanSource)
		var triggered atomic.Int32
		job := NewOutboxListenerJob(source, func() { triggered.Add(1) }, discard())
		require.NoError(t, job.Start())

		source <- struct{}{}
		source <- struct{}{}

		assert.Eventually(t, func() bool { return triggered.Load() == 2 }, time.Second, 10*time.Millisecond)
		job.Stop()
	})

	t.Run("should stop when the source closes", func(t *testing.T) {
		source := make(chanSource)
		job := NewOutboxListenerJob(source, func() {}, discard())
		require.NoError(t, job.Start())

		close(source)
		job.Stop()
	})

	t.Run("should drive a source that needs running", func(t *testing.T) {
		source := &runningSource{chanSource: make(chanSource)}
		job := NewOutboxListenerJob(source, func() {}, discard())
		require.NoError(t, job.Start())

		assert.Eventually(t, source.running.Load, time.Second, 10*time.Millisecond)
		job.Stop()
		assert.False(t, source.running.Load())
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should reject an invalid batch size", func(t *testing.T) {
		_, err := NewJobManager(new(MockRelayer), 0, nil, discard())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should relay on signal and stop cleanly", func(t *testing.T) {
		var calls atomic.Int32
		relayer := new(MockRelayer)
		relayer.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { calls.Add(1) }).
			Return(commands.RelayOutboxResult{Published: 1}, nil)
		source := make(chanSource, 1)

		jm, err := NewJobManager(relayer, 100, source, discard())
		require.NoError(t, err)
		require.NoError(t, jm.StartAll())

		source <- struct{}{}
		assert.Eventually(t, func() bool { return calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)

		jm.StopAll()
	})

	t.Run("should run without a signal source", func(t *testing.T) {
		relayer := new(MockRelayer)
		relayer.On("Handle", mock.Anything, mock.Anything).Return(commands.RelayOutboxResult{}, nil).Maybe()
		jm, err := NewJobManager(relayer, 100, nil, discard())
		require.NoError(t, err)
		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})
}
