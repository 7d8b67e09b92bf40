package deluge

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"
)

func sleepIdentity(d time.Duration) func(context.Context, int) int {
	return func(_ context.Context, v int) int {
		time.Sleep(d)
		return v
	}
}

func TestCollect_Ordered(t *testing.T) {
	flow := Map(FromSlice([]int{1, 2, 3, 4}), func(_ context.Context, v int) int {
		return v * 2
	})

	got, err := Collect(context.Background(), flow)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if !slices.Equal(got, []int{2, 4, 6, 8}) {
		t.Errorf("Collect() = %v, want [2 4 6 8]", got)
	}
}

func TestCollect_UnboundedOverlapsLatency(t *testing.T) {
	flow := Map(Range(0, 100), sleepIdentity(100*time.Millisecond))

	start := time.Now()
	got, err := Collect(context.Background(), flow)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("Collect() returned %d items, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Collect()[%d] = %d, want %d", i, v, i)
		}
	}
	// 100 sequential sleeps would cost 10s; all of them must overlap.
	if elapsed > 2*time.Second {
		t.Errorf("unbounded collect took %v, computations did not overlap", elapsed)
	}
}

func TestCollect_BoundedConcurrencyBatches(t *testing.T) {
	flow := Map(Range(0, 15), sleepIdentity(50*time.Millisecond))

	start := time.Now()
	got, err := Collect(context.Background(), flow, WithConcurrency(5))
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 15 {
		t.Fatalf("Collect() returned %d items, want 15", len(got))
	}
	// 15 items in windows of 5 means at least three full sleeps.
	if elapsed < 140*time.Millisecond {
		t.Errorf("collect took %v, too fast for a window of 5", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Errorf("collect took %v, windows did not overlap", elapsed)
	}
}

func TestCollect_ConcurrencyNeverExceedsBound(t *testing.T) {
	const limit = 3
	var current, peak atomic.Int64

	flow := Map(Range(0, 24), func(_ context.Context, v int) int {
		n := current.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		current.Add(-1)
		return v
	})

	if _, err := Collect(context.Background(), flow, WithConcurrency(limit)); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency = %d, want <= %d", got, limit)
	}
}

func TestCollect_FilteredPositionsOmitted(t *testing.T) {
	flow := Filter(Range(0, 10), func(_ context.Context, v int) bool {
		return v%3 == 0
	})

	got, err := Collect(context.Background(), flow, WithConcurrency(2))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if !slices.Equal(got, []int{0, 3, 6, 9}) {
		t.Errorf("Collect() = %v, want [0 3 6 9]", got)
	}
}

func TestCollect_EachPositionEvaluatedOnce(t *testing.T) {
	var pulls, runs atomic.Int64
	upstream := Map(Range(0, 50), func(_ context.Context, v int) int {
		runs.Add(1)
		return v
	})
	counted := FlowFunc[int](func() (Thunk[int], bool) {
		thunk, ok := upstream.Next()
		if ok {
			pulls.Add(1)
		}
		return thunk, ok
	})

	if _, err := Collect(context.Background(), counted, WithConcurrency(7)); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if pulls.Load() != 50 {
		t.Errorf("upstream pulled %d times, want 50", pulls.Load())
	}
	if runs.Load() != 50 {
		t.Errorf("computations ran %d times, want 50", runs.Load())
	}
}

func TestCollectInto(t *testing.T) {
	var acc SliceExtender[int]
	err := CollectInto(context.Background(), Range(0, 5), &acc)
	if err != nil {
		t.Fatalf("CollectInto() error = %v", err)
	}
	if !slices.Equal(acc.Items, []int{0, 1, 2, 3, 4}) {
		t.Errorf("CollectInto() = %v", acc.Items)
	}
}

func TestCollectInto_MapExtender(t *testing.T) {
	flow := Map(FromSlice([]string{"a", "bb", "ccc"}), func(_ context.Context, s string) Pair[string, int] {
		return Pair[string, int]{First: s, Second: len(s)}
	})

	var acc MapExtender[string, int]
	if err := CollectInto(context.Background(), flow, &acc); err != nil {
		t.Fatalf("CollectInto() error = %v", err)
	}
	want := map[string]int{"a": 1, "bb": 2, "ccc": 3}
	if len(acc.Items) != len(want) {
		t.Fatalf("CollectInto() = %v, want %v", acc.Items, want)
	}
	for k, v := range want {
		if acc.Items[k] != v {
			t.Errorf("CollectInto()[%q] = %d, want %d", k, acc.Items[k], v)
		}
	}
}

func TestCollect_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	flow := Map(Range(0, 100), func(ctx context.Context, v int) int {
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
		return v
	})

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = Collect(ctx, flow, WithConcurrency(4))
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Collect() did not return after cancellation")
	}
	if err == nil {
		t.Fatal("Collect() error = nil, want context error")
	}
}

func TestCollect_PanicPropagates(t *testing.T) {
	flow := Map(Range(0, 10), func(_ context.Context, v int) int {
		if v == 4 {
			panic("element blew up")
		}
		return v
	})

	defer func() {
		r := recover()
		if r != "element blew up" {
			t.Errorf("recovered %v, want the element panic", r)
		}
	}()
	_, _ = Collect(context.Background(), flow, WithConcurrency(2))
	t.Error("Collect() returned instead of panicking")
}

func TestCollect_EmptyFlow(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice[int](nil))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Collect() = %v, want empty", got)
	}
}
