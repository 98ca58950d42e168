package breakpoints

import (
	"testing"

	"github.com/mrzor/stack-tracer/internal/symbols"
)

func testSymbols() []symbols.Symbol {
	// Deliberately out of address order.
	return []symbols.Symbol{
		{Addr: 0x400300, Name: "gamma"},
		{Addr: 0x400100, Name: "alpha"},
		{Addr: 0x400200, Name: "beta"},
	}
}

func TestNewQueue_AddressAscendingIDs(t *testing.T) {
	q := NewQueue(testSymbols())

	all := q.All()
	if len(all) != 3 {
		t.Fatalf("All() length = %d, want 3", len(all))
	}

	wantNames := []string{"alpha", "beta", "gamma"}
	for i, bp := range all {
		if bp.ID != i+1 {
			t.Errorf("breakpoint %d ID = %d, want %d", i, bp.ID, i+1)
		}
		if bp.FuncName != wantNames[i] {
			t.Errorf("breakpoint %d name = %q, want %q", i, bp.FuncName, wantNames[i])
		}
		if bp.State != Queued {
			t.Errorf("breakpoint %d state = %v, want queued", i, bp.State)
		}
	}
}

func TestQueue_PopFrontMarksSent(t *testing.T) {
	q := NewQueue(testSymbols())

	bp := q.PopFront()
	if bp == nil {
		t.Fatal("PopFront() returned nil")
	}
	if bp.State != Sent {
		t.Errorf("state = %v, want sent", bp.State)
	}
	if q.Sent() != bp {
		t.Error("Sent() should return the popped breakpoint")
	}
}

func TestQueue_ConfirmRecordsLocation(t *testing.T) {
	q := NewQueue(testSymbols())
	q.PopFront()

	bp := q.Confirm("main.c", 42)
	if bp == nil {
		t.Fatal("Confirm() returned nil")
	}
	if bp.State != Confirmed {
		t.Errorf("state = %v, want confirmed", bp.State)
	}
	if bp.File != "main.c" || bp.Line != 42 {
		t.Errorf("location = %s:%d, want main.c:42", bp.File, bp.Line)
	}
	if q.Sent() != nil {
		t.Error("Sent() should be nil after confirmation")
	}
}

func TestQueue_ConfirmWithNoneInFlight(t *testing.T) {
	q := NewQueue(testSymbols())
	if q.Confirm("main.c", 1) != nil {
		t.Error("Confirm() with nothing sent should return nil")
	}
}

func TestQueue_DrainsInOrder(t *testing.T) {
	q := NewQueue(testSymbols())

	var addrs []uint64
	for !q.Empty() {
		bp := q.PopFront()
		addrs = append(addrs, bp.Addr)
		q.Confirm("", 0)
	}

	if q.PopFront() != nil {
		t.Error("PopFront() on empty queue should return nil")
	}
	for i := 1; i < len(addrs); i++ {
		if addrs[i] <= addrs[i-1] {
			t.Errorf("addresses not ascending: %#x after %#x", addrs[i], addrs[i-1])
		}
	}
}
