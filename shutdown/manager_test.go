package shutdown

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"zimage_power/core"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegistry_OrderAndErrors(t *testing.T) {
	registry := NewRegistry()
	var order []string
	record := func(name string, err error) core.ShutdownFunc {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}

	registry.Register("logger", PriorityLogger, record("logger", nil))
	registry.Register("http", PriorityHTTP, record("http", nil))
	registry.Register("database", PriorityDatabase, record("database", errors.New("locked")))
	registry.Register("cleanup", PriorityWorkers, record("cleanup", nil))
	registry.Register("scheduler", PriorityWorkers, record("scheduler", nil))
	registry.Register("nil", 0, nil)

	want := []string{"http", "cleanup", "scheduler", "database", "logger"}
	if got := strings.Join(registry.Names(), ","); got != strings.Join(want, ",") {
		t.Errorf("Names() = %s", got)
	}

	errs := registry.Run(context.Background())
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("run order = %v", order)
	}
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "database: locked") {
		t.Errorf("errs = %v", errs)
	}

	registry.Register("late", 0, record("late", nil))
	if errs := registry.Run(context.Background()); errs != nil {
		t.Errorf("second Run() = %v, want nil", errs)
	}
	if registry.Count() != 5 {
		t.Errorf("Count() = %d, want 5", registry.Count())
	}
}

func TestManager_ShutdownRunsHooks(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), WithTimeout(time.Second))
	var closed bool
	m.Register("flag", PriorityDatabase, func(context.Context) error {
		closed = true
		return nil
	})

	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if !closed {
		t.Error("hook not executed")
	}
	if m.Context().Err() == nil {
		t.Error("Context() not cancelled after Shutdown")
	}
	if m.Tracker().Start() {
		t.Error("tracker accepted an operation after Shutdown")
	}
	if err := m.Shutdown(); err != nil {
		t.Errorf("second Shutdown() = %v", err)
	}
	if code := m.ExitCode(nil); code != core.ExitCodeSuccess {
		t.Errorf("ExitCode() = %d", code)
	}
}

func TestManager_ShutdownReportsErrors(t *testing.T) {
	zc, logs := observer.New(zap.ErrorLevel)
	m := NewManager(zap.New(zc))
	boom := errors.New("boom")
	m.Register("broken", 1, func(context.Context) error { return boom })

	err := m.Shutdown()
	if !errors.Is(err, boom) {
		t.Fatalf("Shutdown() = %v, want wrapped boom", err)
	}
	if logs.FilterMessage("Cleanup function failed").Len() != 1 {
		t.Error("expected a logged cleanup failure")
	}
	if code := m.ExitCode(err); code != core.ExitCodeError {
		t.Errorf("ExitCode() = %d, want %d", code, core.ExitCodeError)
	}
}

func TestManager_SignalHandling(t *testing.T) {
	var forced []int
	m := NewManager(zaptest.NewLogger(t), WithForceExit(func(code int) { forced = append(forced, code) }))

	m.handleSignal(syscall.SIGTERM)
	select {
	case <-m.Context().Done():
	default:
		t.Fatal("first signal did not cancel the context")
	}
	if len(forced) != 0 {
		t.Fatal("first signal forced exit")
	}

	m.handleSignal(syscall.SIGINT)
	if len(forced) != 1 || forced[0] != core.ExitCodeSIGINT {
		t.Errorf("forced = %v, want [%d]", forced, core.ExitCodeSIGINT)
	}
	if code := m.ExitCode(nil); code != core.ExitCodeSIGTERM {
		t.Errorf("ExitCode() = %d, want %d", code, core.ExitCodeSIGTERM)
	}
}

func TestManager_WaitsForOperations(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t), WithTimeout(2*time.Second))
	if !m.Tracker().Start() {
		t.Fatal("Start() = false")
	}

	var order []string
	m.Register("after-drain", 1, func(context.Context) error {
		order = append(order, "hook")
		return nil
	})
	go func() {
		time.Sleep(20 * time.Millisecond)
		order = append(order, "op")
		m.Tracker().Done()
	}()

	if err := m.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "op,hook" {
		t.Errorf("order = %v, want op before hook", order)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestHooks(t *testing.T) {
	ctx := context.Background()

	var closed bool
	if err := Closer(closerFunc(func() error { closed = true; return nil }))(ctx); err != nil || !closed {
		t.Errorf("Closer hook: err=%v closed=%v", err, closed)
	}

	cctx, cancel := context.WithCancel(ctx)
	if err := CancelFunc(cancel)(ctx); err != nil || cctx.Err() == nil {
		t.Error("CancelFunc hook did not cancel")
	}

	srv := httptest.NewUnstartedServer(http.NotFoundHandler())
	srv.Start()
	defer srv.Close()
	if err := HTTPServer(srv.Config)(ctx); err != nil {
		t.Errorf("HTTPServer hook = %v", err)
	}

	if err := SyncLogger(zap.NewNop())(ctx); err != nil {
		t.Errorf("SyncLogger hook = %v", err)
	}
}
