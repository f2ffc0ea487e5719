package report

import (
	safedecoding "github.com/renato-iar/safedecoding"
)

type multi []safedecoding.Reporter

// Multi fans every recovery out to all given reporters in order. Nil entries
// are skipped.
func Multi(reps ...safedecoding.Reporter) safedecoding.Reporter {
	out := make(multi, 0, len(reps))
	for _, r := range reps {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) ReportField(err error, field, fieldType, owner string) {
	for _, r := range m {
		r.ReportField(err, field, fieldType, owner)
	}
}

func (m multi) ReportItem(err error, itemType string, index int, field, owner string) {
	for _, r := range m {
		r.ReportItem(err, itemType, index, field, owner)
	}
}

func (m multi) ReportSetItem(err error, itemType, field, owner string) {
	for _, r := range m {
		r.ReportSetItem(err, itemType, field, owner)
	}
}

func (m multi) ReportEntry(err error, itemType string, key any, field, owner string) {
	for _, r := range m {
		r.ReportEntry(err, itemType, key, field, owner)
	}
}

func (m multi) ReportCase(err error, owner string) {
	for _, r := range m {
		r.ReportCase(err, owner)
	}
}
