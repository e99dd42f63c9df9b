package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "season-view", nil
	}

	const callers = 24
	start := make(chan struct{})
	failures := make(chan error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "difficulty:2025-26:view", loader)
			if err != nil {
				failures <- err
				return
			}
			if got, _ := v.(string); got != "season-view" {
				failures <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(failures)
	for err := range failures {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "season-view", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "difficulty:2025-26:view", loader); err != nil {
			t.Fatalf("GetOrLoad %d: %v", i, err)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "difficulty:2025-26:gw:12", 1)
	store.Set(ctx, "difficulty:2025-26:gw:13", 2)
	store.Set(ctx, "difficulty:2024-25:gw:12", 3)

	store.DeletePrefix(ctx, "difficulty:2025-26:")

	if _, ok := store.Get(ctx, "difficulty:2025-26:gw:12"); ok {
		t.Fatal("expected prefixed key to be evicted")
	}
	if _, ok := store.Get(ctx, "difficulty:2025-26:gw:13"); ok {
		t.Fatal("expected prefixed key to be evicted")
	}
	if _, ok := store.Get(ctx, "difficulty:2024-25:gw:12"); !ok {
		t.Fatal("expected other season to survive")
	}
}
