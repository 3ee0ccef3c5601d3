package index

import (
	"reflect"
	"sync/atomic"
	"time"

	"github.com/viant/gmetric"
	"github.com/viant/gmetric/counter"
	"github.com/viant/gmetric/provider"
)

type metricsLocation struct{}

func metricLocation() string {
	return reflect.TypeOf(metricsLocation{}).PkgPath()
}

// operationCounter is the slice of gmetric's counter surface the engine
// touches.
type operationCounter interface {
	Begin(started time.Time) counter.OnDone
	IncrementValue(value interface{}) int64
	DecrementValue(value interface{}) int64
}

// Metrics carries lookup timing and cache hit/miss instrumentation for one
// index. All methods are safe on a nil receiver, so an uninstrumented
// index pays a nil check only. Running totals are kept alongside the
// gmetric counters for plain-text reporting.
type Metrics struct {
	lookup operationCounter
	hit    operationCounter
	miss   operationCounter

	lookups atomic.Int64
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewMetrics registers lookup and cache counters for name on service.
// A nil service yields nil, which every instrumented path accepts.
func NewMetrics(service *gmetric.Service, name string) *Metrics {
	if service == nil {
		return nil
	}
	loc := metricLocation()
	return &Metrics{
		lookup: service.MultiOperationCounter(loc, name+".lookup", name+" lookup performance", time.Millisecond, time.Minute, 2, provider.NewBasic()),
		hit:    service.MultiOperationCounter(loc, name+".cache.hit", name+" cache hits", time.Millisecond, time.Minute, 2, provider.NewBasic()),
		miss:   service.MultiOperationCounter(loc, name+".cache.miss", name+" cache misses", time.Millisecond, time.Minute, 2, provider.NewBasic()),
	}
}

func (m *Metrics) beginLookup(started time.Time) counter.OnDone {
	if m == nil {
		return nopOnDone
	}
	m.lookups.Add(1)
	return m.lookup.Begin(started)
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.hits.Add(1)
	m.hit.IncrementValue(nil)
}

func (m *Metrics) cacheMiss() {
	if m == nil {
		return
	}
	m.misses.Add(1)
	m.miss.IncrementValue(nil)
}

func nopOnDone(_ time.Time, _ ...interface{}) int64 { return 0 }

// MetricsSnapshot holds the running totals at one point in time.
type MetricsSnapshot struct {
	Lookups     int64
	CacheHits   int64
	CacheMisses int64
}

// Snapshot returns the running totals. A nil receiver reports zeros.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Lookups:     m.lookups.Load(),
		CacheHits:   m.hits.Load(),
		CacheMisses: m.misses.Load(),
	}
}
