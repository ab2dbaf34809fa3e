package autosave

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestFiresAfterDelay(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Arm(1, func() { fired.Add(1) })

	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired.Load())
	}
	if d.Pending(1) {
		t.Error("task should no longer be pending")
	}
}

func TestRearmSupersedes(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var first, second atomic.Int32
	d.Arm(1, func() { first.Add(1) })
	time.Sleep(5 * time.Millisecond)
	d.Arm(1, func() { second.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if first.Load() != 0 {
		t.Error("superseded task should not fire")
	}
	if second.Load() != 1 {
		t.Errorf("expected rearm to fire once, got %d", second.Load())
	}
}

func TestCancelPreventsFire(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	d.Arm(1, func() { fired.Add(1) })
	if !d.Cancel(1) {
		t.Fatal("expected a pending task to cancel")
	}

	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 0 {
		t.Errorf("cancelled task fired %d times", fired.Load())
	}
	if d.Cancel(1) {
		t.Error("second cancel should report nothing pending")
	}
}

func TestFlushRunsImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	var fired atomic.Int32
	d.Arm(1, func() { fired.Add(1) })
	if !d.Flush(1) {
		t.Fatal("expected flush to run the pending task")
	}
	if fired.Load() != 1 {
		t.Fatalf("expected one fire, got %d", fired.Load())
	}
}

func TestKeysAreIndependent(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var a, b atomic.Int32
	d.Arm(1, func() { a.Add(1) })
	d.Arm(2, func() { b.Add(1) })
	d.Cancel(1)

	time.Sleep(60 * time.Millisecond)
	if a.Load() != 0 || b.Load() != 1 {
		t.Fatalf("expected only key 2 to fire: a=%d b=%d", a.Load(), b.Load())
	}
}
