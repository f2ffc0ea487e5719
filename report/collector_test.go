package report_test

import (
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/renato-iar/safedecoding/report"
)

func TestCollectorRecordsInOrder(t *testing.T) {
	col := report.NewCollector()
	errA := errors.New("a")
	errB := errors.New("b")

	col.ReportField(errA, "age", "Int?", "User")
	col.ReportItem(errB, "Int", 2, "scores", "User")
	col.ReportSetItem(errB, "String", "labels", "User")
	col.ReportEntry(errB, "Int", "k", "byKey", "User")
	col.ReportCase(errA, "Shape")

	recs := col.Recoveries()
	if len(recs) != 5 {
		t.Fatalf("got %d recoveries, want 5", len(recs))
	}
	wantKinds := []report.Kind{
		report.KindField, report.KindItem, report.KindSetItem, report.KindEntry, report.KindCase,
	}
	for i, k := range wantKinds {
		if recs[i].Kind != k {
			t.Errorf("recs[%d].Kind = %v, want %v", i, recs[i].Kind, k)
		}
	}
	if recs[1].Index != 2 {
		t.Errorf("item index = %d, want 2", recs[1].Index)
	}
	if recs[3].Key != "k" {
		t.Errorf("entry key = %v, want k", recs[3].Key)
	}

	col.Reset()
	if col.Len() != 0 {
		t.Fatalf("Len after Reset = %d", col.Len())
	}
}

func TestCollectorConcurrentUse(t *testing.T) {
	col := report.NewCollector()
	err := errors.New("x")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				col.ReportField(err, "f", "Int", "T")
			}
		}()
	}
	wg.Wait()

	if col.Len() != 800 {
		t.Fatalf("Len = %d, want 800", col.Len())
	}
}

func TestZapReporterLogsWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rep := report.Zap(zap.New(core))

	rep.ReportField(errors.New("boom"), "age", "Int?", "User")
	rep.ReportItem(errors.New("boom"), "Int", 1, "scores", "User")
	rep.ReportCase(errors.New("boom"), "Shape")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("got %d log entries, want 3", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["owner"] != "User" || fields["field"] != "age" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestZapNilLoggerIsSafe(t *testing.T) {
	rep := report.Zap(nil)
	rep.ReportField(errors.New("boom"), "f", "Int", "T")
}

type countingReporter struct{ n int }

func (c *countingReporter) ReportField(error, string, string, string)      { c.n++ }
func (c *countingReporter) ReportItem(error, string, int, string, string) { c.n++ }
func (c *countingReporter) ReportSetItem(error, string, string, string)   { c.n++ }
func (c *countingReporter) ReportEntry(error, string, any, string, string) {
	c.n++
}
func (c *countingReporter) ReportCase(error, string) { c.n++ }

func TestMultiFansOut(t *testing.T) {
	a := &countingReporter{}
	b := &countingReporter{}
	m := report.Multi(a, nil, b)

	m.ReportField(errors.New("x"), "f", "Int", "T")
	m.ReportCase(errors.New("x"), "T")

	if a.n != 2 || b.n != 2 {
		t.Fatalf("fan-out counts: a=%d b=%d, want 2/2", a.n, b.n)
	}
}
