package deluge

import (
	"context"
	"slices"
	"testing"
)

func TestPreloaded_LengthKnownUpFront(t *testing.T) {
	pre := NewPreloaded(Range(0, 7))
	if got := pre.Len(); got != 7 {
		t.Errorf("Len() = %d, want 7", got)
	}
}

func TestPreloaded_ServesInOrder(t *testing.T) {
	pre := NewPreloaded(FromSlice([]string{"x", "y", "z"}))
	got := drain(t, pre)
	if !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("Preloaded = %v", got)
	}
	if pre.Len() != 0 {
		t.Errorf("Len() after drain = %d, want 0", pre.Len())
	}
}

func TestPreloaded_IntakeDoesNotEvaluate(t *testing.T) {
	evaluated := 0
	flow := Map(Range(0, 5), func(_ context.Context, v int) int {
		evaluated++
		return v
	})

	pre := NewPreloaded(flow)
	if evaluated != 0 {
		t.Fatalf("intake evaluated %d computations, want 0", evaluated)
	}
	if pre.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", pre.Len())
	}

	drain(t, pre)
	if evaluated != 5 {
		t.Errorf("evaluated %d computations after drain, want 5", evaluated)
	}
}

func TestPreloaded_ExhaustsUpstream(t *testing.T) {
	upstream := Range(0, 3)
	NewPreloaded(upstream)
	if _, ok := upstream.Next(); ok {
		t.Error("upstream still yields after preloading")
	}
}

func TestPreloaded_Empty(t *testing.T) {
	pre := NewPreloaded(FromSlice[int](nil))
	if pre.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pre.Len())
	}
	if _, ok := pre.Next(); ok {
		t.Error("Next() of empty Preloaded yielded a thunk")
	}
}
