package deluge

import (
	"context"
	"testing"
	"time"
)

func reverseRange(from, downTo int) Flow[int] {
	// from-1, from-2, ..., downTo
	n := from
	return FlowFunc[int](func() (Thunk[int], bool) {
		if n <= downTo {
			return nil, false
		}
		n--
		return Ready(n), true
	})
}

func TestZip_PairsByPosition(t *testing.T) {
	pairs, err := Collect(context.Background(), Zip(FromSlice([]string{"a", "b", "c"}), Range(0, 3)))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []Pair[string, int]{{"a", 0}, {"b", 1}, {"c", 2}}
	if len(pairs) != len(want) {
		t.Fatalf("Zip() produced %d pairs, want %d", len(pairs), len(want))
	}
	for i, p := range pairs {
		if p != want[i] {
			t.Errorf("pair[%d] = %v, want %v", i, p, want[i])
		}
	}
}

func TestZip_LengthIsTheShorterSide(t *testing.T) {
	tests := []struct {
		name       string
		lenA, lenB int
		want       int
	}{
		{name: "first_shorter", lenA: 3, lenB: 10, want: 3},
		{name: "second_shorter", lenA: 10, lenB: 4, want: 4},
		{name: "equal", lenA: 5, lenB: 5, want: 5},
		{name: "one_empty", lenA: 0, lenB: 9, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := Collect(context.Background(), Zip(Range(0, tt.lenA), Range(0, tt.lenB)))
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if len(pairs) != tt.want {
				t.Errorf("len(Zip()) = %d, want %d", len(pairs), tt.want)
			}
		})
	}
}

func TestZip_ReversedAgainstAscending(t *testing.T) {
	// (99, 98, ..., 0) zipped with (0, 1, ..., 89).
	pairs, err := Collect(context.Background(), Zip(reverseRange(100, 0), Range(0, 90)))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(pairs) != 90 {
		t.Fatalf("len(Zip()) = %d, want 90", len(pairs))
	}
	if pairs[0] != (Pair[int, int]{99, 0}) {
		t.Errorf("pair[0] = %v, want (99, 0)", pairs[0])
	}
	if pairs[1] != (Pair[int, int]{98, 1}) {
		t.Errorf("pair[1] = %v, want (98, 1)", pairs[1])
	}
	if pairs[89] != (Pair[int, int]{10, 89}) {
		t.Errorf("pair[89] = %v, want (10, 89)", pairs[89])
	}
}

func TestZip_PairsUnaffectedByCompletionOrder(t *testing.T) {
	// The left side resolves in reverse completion order; pairs must still
	// match positionally.
	left := Map(Range(0, 8), func(_ context.Context, v int) int {
		time.Sleep(time.Duration(8-v) * 5 * time.Millisecond)
		return v
	})
	pairs, err := Collect(context.Background(), Zip(left, Range(0, 8)))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(pairs) != 8 {
		t.Fatalf("len(Zip()) = %d, want 8", len(pairs))
	}
	for i, p := range pairs {
		if p.First != i || p.Second != i {
			t.Errorf("pair[%d] = %v, want (%d, %d)", i, p, i, i)
		}
	}
}

func TestZip_FilteredPositionsShortenTheSide(t *testing.T) {
	// Left survives {0, 2, 4, 6, 8}; pairing is over surviving elements,
	// so the zipped length tracks the shorter surviving side.
	left := Filter(Range(0, 10), func(_ context.Context, v int) bool {
		return v%2 == 0
	})
	pairs, err := Collect(context.Background(), Zip(left, Range(0, 10)))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(pairs) != 5 {
		t.Fatalf("len(Zip()) = %d, want 5", len(pairs))
	}
	for i, p := range pairs {
		if p.First != i*2 || p.Second != i {
			t.Errorf("pair[%d] = %v, want (%d, %d)", i, p, i*2, i)
		}
	}
}

func TestZip_BoundedConcurrency(t *testing.T) {
	pairs, err := Collect(context.Background(),
		Zip(Range(0, 12), Range(0, 12), WithConcurrency(3)))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(pairs) != 12 {
		t.Fatalf("len(Zip()) = %d, want 12", len(pairs))
	}
	for i, p := range pairs {
		if p.First != i || p.Second != i {
			t.Errorf("pair[%d] = %v", i, p)
		}
	}
}

func TestZip_LengthKnownBeforeEvaluation(t *testing.T) {
	evaluated := 0
	left := Map(Range(0, 6), func(_ context.Context, v int) int {
		evaluated++
		return v
	})

	flow := Zip(left, Range(0, 4))
	if evaluated != 0 {
		t.Fatalf("construction evaluated %d computations, want 0", evaluated)
	}
	if got := Count(flow); got != 4 {
		t.Errorf("Count(Zip()) = %d, want 4", got)
	}
	if evaluated != 0 {
		t.Errorf("counting evaluated %d computations, want 0", evaluated)
	}
}
