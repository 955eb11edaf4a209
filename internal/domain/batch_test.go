package domain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBatch_AddTracksTotalBytes(t *testing.T) {
	b := NewBatch()
	if !b.Empty() {
		t.Fatal("new batch should be empty")
	}

	members := []string{`{"a":1}`, `{"bb":22}`, `{}`}
	want := 0
	for _, m := range members {
		b.Add(SerializedEvent(m))
		want += len(m)
		if b.TotalBytes != want {
			t.Errorf("TotalBytes = %d, want %d", b.TotalBytes, want)
		}
	}
	if b.Size() != len(members) {
		t.Errorf("Size() = %d, want %d", b.Size(), len(members))
	}
}

func TestBatch_Fits(t *testing.T) {
	b := NewBatch()
	b.Add(SerializedEvent("0123456789"))

	tests := []struct {
		n, max int
		want   bool
	}{
		{0, 10, true},
		{5, 15, true},
		{6, 15, false},
		{1, 10, false},
	}
	for _, tt := range tests {
		if got := b.Fits(tt.n, tt.max); got != tt.want {
			t.Errorf("Fits(%d, %d) = %v, want %v", tt.n, tt.max, got, tt.want)
		}
	}
}

func TestUnit_Body(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{`{"a":1}`}, `{"a":1}`},
		{"three", []string{`{"a":1}`, `{"b":2}`, `{"c":3}`}, `{"a":1} {"b":2} {"c":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch()
			for _, e := range tt.events {
				b.Add(SerializedEvent(e))
			}
			u := NewBatchUnit(b)
			if got := string(u.Body()); got != tt.want {
				t.Errorf("Body() = %q, want %q", got, tt.want)
			}
			if u.Bytes != b.TotalBytes {
				t.Errorf("Bytes = %d, want %d", u.Bytes, b.TotalBytes)
			}
		})
	}
}

func TestNewSingleUnit(t *testing.T) {
	u := NewSingleUnit(SerializedEvent(`{"x":"y"}`))
	if u.Kind != UnitSingle {
		t.Errorf("Kind = %v, want single", u.Kind)
	}
	if len(u.Events) != 1 || u.Bytes != 9 {
		t.Errorf("unit = %+v, want one 9-byte member", u)
	}
	if u.Kind.String() != "single" || UnitBatch.String() != "batch" || UnitKind(7).String() != "unknown" {
		t.Error("unexpected UnitKind strings")
	}
}

func TestEvent_WithDefaults(t *testing.T) {
	t.Run("fills absent keys", func(t *testing.T) {
		in := Event{"event": "hello"}
		out := in.WithDefaults("box", "1700000000")
		if out[FieldHost] != "box" || out[FieldTime] != "1700000000" {
			t.Errorf("defaults not applied: %v", out)
		}
		if _, ok := in[FieldHost]; ok {
			t.Error("caller event was modified")
		}
	})

	t.Run("keeps caller values", func(t *testing.T) {
		in := Event{FieldHost: "mysterymachine", FieldTime: "42"}
		out := in.WithDefaults("box", "1700000000")
		if out[FieldHost] != "mysterymachine" || out[FieldTime] != "42" {
			t.Errorf("caller values overwritten: %v", out)
		}
	})

	t.Run("keeps caller values of other types", func(t *testing.T) {
		in := Event{FieldTime: 42.5}
		out := in.WithDefaults("box", "1700000000")
		if out[FieldTime] != 42.5 {
			t.Errorf("time = %v, want 42.5", out[FieldTime])
		}
	})
}

func TestReceipt(t *testing.T) {
	r := NewReceipt()
	if r.Err() != nil {
		t.Fatal("unresolved receipt should report nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() = %v, want deadline exceeded", err)
	}

	u := NewSingleUnit(SerializedEvent(`{}`))
	u.Receipt = r
	u.Complete(ErrDropped)
	u.Complete(nil) // second completion is ignored

	if err := r.Wait(context.Background()); !errors.Is(err, ErrDropped) {
		t.Errorf("Wait() = %v, want ErrDropped", err)
	}
	select {
	case <-r.Done():
	default:
		t.Error("Done() not closed")
	}
}
