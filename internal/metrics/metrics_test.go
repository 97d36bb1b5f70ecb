package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestHistogramPercentile(t *testing.T) {
	var h Histogram
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * 10 * time.Millisecond)
	}

	if got := h.Count(); got != 5 {
		t.Fatalf("Count = %d, want 5", got)
	}
	if got := h.Mean(); got != 30 {
		t.Errorf("Mean = %v, want 30", got)
	}
	if got := h.Percentile(50); got != 30 {
		t.Errorf("P50 = %v, want 30", got)
	}
	if got := h.Percentile(75); got != 40 {
		t.Errorf("P75 = %v, want 40", got)
	}
	if got := h.Max(); got != 50 {
		t.Errorf("Max = %v, want 50", got)
	}
}

func TestHistogramInterpolates(t *testing.T) {
	var h Histogram
	h.Record(10 * time.Millisecond)
	h.Record(20 * time.Millisecond)

	if got := h.Percentile(50); got != 15 {
		t.Errorf("P50 = %v, want 15", got)
	}
}

func TestHistogramEmpty(t *testing.T) {
	var h Histogram
	if h.Mean() != 0 || h.Percentile(95) != 0 || h.Max() != 0 {
		t.Error("empty histogram should report zeros")
	}
}

func TestRequestsSnapshot(t *testing.T) {
	r := NewRequests()
	r.Observe("season_rank", 5*time.Millisecond, nil)
	r.Observe("season_rank", 7*time.Millisecond, errors.New("404"))
	r.Observe("operators", 3*time.Millisecond, nil)

	s := r.Snapshot()
	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if s.Failed != 1 {
		t.Errorf("Failed = %d, want 1", s.Failed)
	}
	if len(s.Endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(s.Endpoints))
	}
	if s.Endpoints[0].Endpoint != "operators" || s.Endpoints[1].Calls != 2 {
		t.Errorf("unexpected endpoints: %+v", s.Endpoints)
	}
	if s.MaxMs != 7 {
		t.Errorf("MaxMs = %v, want 7", s.MaxMs)
	}
}
