package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"zimage_power/core"

	"go.uber.org/zap"
)

// DefaultTimeout bounds draining plus cleanup.
const DefaultTimeout = 30 * time.Second

// Manager ties an OperationTracker, a Registry and OS signal handling
// together.
//
//	manager := shutdown.NewManager(logger, shutdown.WithTimeout(cfg.ShutdownTimeout))
//	manager.Register("database", shutdown.PriorityDatabase, shutdown.Closer(db))
//	manager.Start()
//	<-manager.Context().Done()
//	err := manager.Shutdown()
//	os.Exit(manager.ExitCode(err))
type Manager struct {
	logger    *zap.Logger
	timeout   time.Duration
	forceExit func(code int)

	ctx    context.Context
	cancel context.CancelFunc

	tracker  *OperationTracker
	registry *Registry

	mu       sync.Mutex
	started  bool
	done     bool
	signals  int
	received os.Signal
	sigChan  chan os.Signal
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTimeout sets the shutdown timeout duration.
func WithTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithForceExit replaces os.Exit for the second-signal escape hatch.
func WithForceExit(fn func(code int)) ManagerOption {
	return func(m *Manager) {
		m.forceExit = fn
	}
}

// NewManager creates a Manager. A nil logger discards output.
func NewManager(logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:    logger,
		timeout:   DefaultTimeout,
		forceExit: os.Exit,
		ctx:       ctx,
		cancel:    cancel,
		tracker:   NewOperationTracker(),
		registry:  NewRegistry(),
		sigChan:   make(chan os.Signal, 2),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Context is cancelled when the first shutdown signal arrives or
// Shutdown is called.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Tracker returns the tracker guarding in-flight operations.
func (m *Manager) Tracker() *OperationTracker {
	return m.tracker
}

// Register adds a cleanup hook.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
	m.logger.Debug("Registered shutdown handler",
		zap.String("name", name),
		zap.Int("priority", priority),
	)
}

// Start listens for SIGINT and SIGTERM. The first signal cancels Context,
// the second forces exit with the matching signal exit code.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range m.sigChan {
			m.handleSignal(sig)
		}
	}()
}

func (m *Manager) handleSignal(sig os.Signal) {
	m.mu.Lock()
	m.signals++
	count := m.signals
	if m.received == nil {
		m.received = sig
	}
	m.mu.Unlock()

	if count == 1 {
		m.logger.Info("Received shutdown signal, initiating graceful shutdown",
			zap.String("signal", sig.String()),
		)
		m.cancel()
		return
	}
	m.logger.Warn("Received second signal, forcing immediate shutdown")
	m.forceExit(signalExitCode(sig))
}

func signalExitCode(sig os.Signal) int {
	if sig == syscall.SIGTERM {
		return core.ExitCodeSIGTERM
	}
	return core.ExitCodeSIGINT
}

// Shutdown closes the tracker, waits for in-flight operations and runs
// the hooks. Later calls return nil.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	started := m.started
	m.mu.Unlock()

	m.cancel()
	if started {
		signal.Stop(m.sigChan)
	}

	start := time.Now()
	m.logger.Info("Initiating graceful shutdown",
		zap.Duration("timeout", m.timeout),
		zap.Int("registered_handlers", m.registry.Count()),
	)

	m.tracker.Close()
	if err := m.tracker.Wait(m.timeout); err != nil {
		m.logger.Warn("Timeout waiting for in-flight operations",
			zap.Int64("remaining_ops", m.tracker.ActiveCount()),
		)
	}

	remaining := m.timeout - time.Since(start)
	if remaining < time.Second {
		remaining = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), remaining)
	defer cancel()

	errs := m.registry.Run(ctx)
	for _, err := range errs {
		m.logger.Error("Cleanup function failed", zap.Error(err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown had %d errors: %w", len(errs), errors.Join(errs...))
	}

	m.logger.Info("Graceful shutdown completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// ExitCode picks the process exit code after Shutdown returned err.
func (m *Manager) ExitCode(err error) int {
	if err != nil {
		return core.ExitCodeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.received != nil {
		return signalExitCode(m.received)
	}
	return core.ExitCodeSuccess
}

// RegisteredHandlers returns hook names in execution order.
func (m *Manager) RegisteredHandlers() []string {
	return m.registry.Names()
}
