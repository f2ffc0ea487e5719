package report

import (
	"go.uber.org/zap"
)

// ZapReporter logs every recovery as a structured warning.
type ZapReporter struct {
	log *zap.Logger
}

// Zap wraps a zap logger as a Reporter. A nil logger falls back to zap.NewNop.
func Zap(log *zap.Logger) *ZapReporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapReporter{log: log}
}

func (z *ZapReporter) ReportField(err error, field, fieldType, owner string) {
	z.log.Warn("recovered field decode failure",
		zap.String("owner", owner),
		zap.String("field", field),
		zap.String("type", fieldType),
		zap.Error(err),
	)
}

func (z *ZapReporter) ReportItem(err error, itemType string, index int, field, owner string) {
	z.log.Warn("recovered array item decode failure",
		zap.String("owner", owner),
		zap.String("field", field),
		zap.String("item_type", itemType),
		zap.Int("index", index),
		zap.Error(err),
	)
}

func (z *ZapReporter) ReportSetItem(err error, itemType, field, owner string) {
	z.log.Warn("recovered set item decode failure",
		zap.String("owner", owner),
		zap.String("field", field),
		zap.String("item_type", itemType),
		zap.Error(err),
	)
}

func (z *ZapReporter) ReportEntry(err error, itemType string, key any, field, owner string) {
	z.log.Warn("recovered dictionary entry decode failure",
		zap.String("owner", owner),
		zap.String("field", field),
		zap.String("item_type", itemType),
		zap.Any("key", key),
		zap.Error(err),
	)
}

func (z *ZapReporter) ReportCase(err error, owner string) {
	z.log.Warn("recovered unmatched case via fallback",
		zap.String("owner", owner),
		zap.Error(err),
	)
}
