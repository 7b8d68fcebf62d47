package shutdown

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestOperationTracker_StartDone(t *testing.T) {
	tracker := NewOperationTracker()

	if !tracker.Start() || !tracker.Start() {
		t.Fatal("Start() = false on an open tracker")
	}
	if got := tracker.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount() = %d, want 2", got)
	}
	tracker.Done()
	tracker.Done()
	tracker.Done() // extra Done is ignored
	if got := tracker.ActiveCount(); got != 0 {
		t.Errorf("ActiveCount() = %d, want 0", got)
	}
}

func TestOperationTracker_CloseRejects(t *testing.T) {
	tracker := NewOperationTracker()
	tracker.Close()

	if tracker.Start() {
		t.Error("Start() = true after Close")
	}
	if !tracker.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
}

func TestOperationTracker_WaitDrains(t *testing.T) {
	tracker := NewOperationTracker()
	const n = 5

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if !tracker.Start() {
			t.Fatal("Start() = false")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(10 * time.Millisecond)
			tracker.Done()
		}()
	}

	tracker.Close()
	if err := tracker.Wait(2 * time.Second); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	wg.Wait()
	if tracker.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d after Wait", tracker.ActiveCount())
	}
}

func TestOperationTracker_WaitTimeout(t *testing.T) {
	tracker := NewOperationTracker()
	tracker.Start()

	if err := tracker.Wait(20 * time.Millisecond); !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("Wait() = %v, want ErrWaitTimeout", err)
	}
	tracker.Done()
	if err := tracker.Wait(time.Second); err != nil {
		t.Errorf("Wait() after Done = %v", err)
	}
}
