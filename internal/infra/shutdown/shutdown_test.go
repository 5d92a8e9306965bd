package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"testing"
	"time"
)

func waitAsync(h *Handler, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(ctx) }()
	return errCh
}

func receive(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
		return nil
	}
}

func TestNewHandler_Defaults(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if !slices.Equal(h.signals, DefaultSignals) {
		t.Errorf("signals = %v, want %v", h.signals, DefaultSignals)
	}

	h = NewHandler(time.Second, WithSignals())
	if len(h.signals) != 0 {
		t.Errorf("WithSignals() left %v", h.signals)
	}
}

func TestHandler_HooksRunInReverse(t *testing.T) {
	h := NewHandler(time.Second, WithSignals())

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"metrics", "watcher", "https"} {
		h.OnShutdown(func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := waitAsync(h, ctx)
	cancel()

	if err := receive(t, errCh); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if want := []string{"https", "watcher", "metrics"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Wait")
	}
}

func TestHandler_Trigger(t *testing.T) {
	h := NewHandler(time.Second, WithSignals())
	ran := make(chan struct{})
	h.OnShutdown(func(context.Context) error {
		close(ran)
		return nil
	})

	errCh := waitAsync(h, context.Background())
	h.Trigger()
	h.Trigger()

	if err := receive(t, errCh); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	select {
	case <-ran:
	default:
		t.Error("hook did not run")
	}
}

func TestHandler_Signal(t *testing.T) {
	// Keep SIGUSR1 from terminating the test binary if it lands early.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGUSR1)
	defer signal.Stop(guard)

	h := NewHandler(time.Second, WithSignals(syscall.SIGUSR1))
	errCh := waitAsync(h, context.Background())

	// Let Wait install its handler before sending.
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("Kill: %v", err)
	}

	if err := receive(t, errCh); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
}

func TestHandler_JoinsHookErrors(t *testing.T) {
	errListen := errors.New("close listener")
	errMetrics := errors.New("close metrics")

	h := NewHandler(time.Second, WithSignals())
	h.OnShutdown(func(context.Context) error { return errMetrics })
	h.OnShutdown(func(context.Context) error { return nil })
	h.OnShutdown(func(context.Context) error { return errListen })

	h.Trigger()
	err := h.Wait(context.Background())
	if !errors.Is(err, errListen) || !errors.Is(err, errMetrics) {
		t.Errorf("Wait() = %v, want both hook errors", err)
	}
}

func TestHandler_HookDeadline(t *testing.T) {
	h := NewHandler(20*time.Millisecond, WithSignals())
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The hook context must not inherit the already cancelled wait context.
	start := time.Now()
	err := h.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("hook returned after %v, before its deadline", elapsed)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(time.Second, WithSignals())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	if len(h.hooks) != 50 {
		t.Errorf("hooks = %d, want 50", len(h.hooks))
	}
}

func TestNotifyContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := NotifyContext(parent)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("context not cancelled with its parent")
	}
}
