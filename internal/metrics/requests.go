package metrics

import (
	"sort"
	"sync"
	"time"
)

// Requests counts provider requests per endpoint and records their latency.
type Requests struct {
	latency Histogram

	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
}

// NewRequests creates an empty request tracker.
func NewRequests() *Requests {
	return &Requests{
		calls:    make(map[string]int),
		failures: make(map[string]int),
	}
}

// Observe records one request to endpoint.
func (r *Requests) Observe(endpoint string, elapsed time.Duration, err error) {
	r.latency.Record(elapsed)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[endpoint]++
	if err != nil {
		r.failures[endpoint]++
	}
}

// Snapshot is a point-in-time summary of Requests.
type Snapshot struct {
	Total     int
	Failed    int
	Endpoints []EndpointCount
	MeanMs    float64
	P50Ms     float64
	P95Ms     float64
	MaxMs     float64
}

// EndpointCount is the number of calls to one endpoint.
type EndpointCount struct {
	Endpoint string
	Calls    int
	Failures int
}

// Snapshot summarizes the requests seen so far. Endpoints are sorted by name.
func (r *Requests) Snapshot() Snapshot {
	r.mu.Lock()
	s := Snapshot{Endpoints: make([]EndpointCount, 0, len(r.calls))}
	for endpoint, calls := range r.calls {
		failures := r.failures[endpoint]
		s.Total += calls
		s.Failed += failures
		s.Endpoints = append(s.Endpoints, EndpointCount{Endpoint: endpoint, Calls: calls, Failures: failures})
	}
	r.mu.Unlock()

	sort.Slice(s.Endpoints, func(i, j int) bool {
		return s.Endpoints[i].Endpoint < s.Endpoints[j].Endpoint
	})

	s.MeanMs = r.latency.Mean()
	s.P50Ms = r.latency.Percentile(50)
	s.P95Ms = r.latency.Percentile(95)
	s.MaxMs = r.latency.Max()

	return s
}
