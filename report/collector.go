// Package report provides ready-made Reporter implementations: an in-memory
// Collector for tests and batch pipelines, a zap-backed logger, and a fan-out.
package report

import (
	"sync"
)

// Kind identifies which reporter operation produced a Recovery.
type Kind string

const (
	KindField   Kind = "field"
	KindItem    Kind = "item"
	KindSetItem Kind = "set_item"
	KindEntry   Kind = "entry"
	KindCase    Kind = "case"
)

// Recovery is one recorded recovery event.
type Recovery struct {
	Kind  Kind
	Err   error
	Field string // empty for case recoveries
	Type  string // declared type of the failing field or element
	Owner string
	Index int // valid only for KindItem
	Key   any // valid only for KindEntry
}

// Collector records every recovery it is notified of. Safe for concurrent
// use by decodes running in parallel.
type Collector struct {
	mu   sync.Mutex
	recs []Recovery
}

// NewCollector returns an empty collector.
func NewCollector() *Collector { return &Collector{} }

func (c *Collector) add(r Recovery) {
	c.mu.Lock()
	c.recs = append(c.recs, r)
	c.mu.Unlock()
}

func (c *Collector) ReportField(err error, field, fieldType, owner string) {
	c.add(Recovery{Kind: KindField, Err: err, Field: field, Type: fieldType, Owner: owner})
}

func (c *Collector) ReportItem(err error, itemType string, index int, field, owner string) {
	c.add(Recovery{Kind: KindItem, Err: err, Field: field, Type: itemType, Owner: owner, Index: index})
}

func (c *Collector) ReportSetItem(err error, itemType, field, owner string) {
	c.add(Recovery{Kind: KindSetItem, Err: err, Field: field, Type: itemType, Owner: owner})
}

func (c *Collector) ReportEntry(err error, itemType string, key any, field, owner string) {
	c.add(Recovery{Kind: KindEntry, Err: err, Field: field, Type: itemType, Owner: owner, Key: key})
}

func (c *Collector) ReportCase(err error, owner string) {
	c.add(Recovery{Kind: KindCase, Err: err, Owner: owner})
}

// Recoveries returns a copy of the recorded events in arrival order.
func (c *Collector) Recoveries() []Recovery {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Recovery, len(c.recs))
	copy(out, c.recs)
	return out
}

// Len reports how many recoveries were recorded.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.recs)
}

// Reset drops all recorded recoveries.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.recs = nil
	c.mu.Unlock()
}
