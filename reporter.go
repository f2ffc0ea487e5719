package safedecoding

// Reporter is an external capability notified whenever a decode failure was
// recovered rather than propagated. The engine only calls it; it never
// inspects it structurally. A nil Reporter means recovery stays silent.
//
// The five operations are distinguished by what failed.
type Reporter interface {
	// ReportField surfaces a whole-field recovery.
	ReportField(err error, field, fieldType, owner string)
	// ReportItem surfaces a sequence-element recovery with its index.
	ReportItem(err error, itemType string, index int, field, owner string)
	// ReportSetItem surfaces an unordered-collection-element recovery.
	// Sets have no stable position, so no index is carried.
	ReportSetItem(err error, itemType, field, owner string)
	// ReportEntry surfaces a map-entry recovery with the entry's key.
	ReportEntry(err error, itemType string, key any, field, owner string)
	// ReportCase surfaces a sum-type fallback-case interception. No single
	// field name applies, so only the enclosing type is carried.
	ReportCase(err error, owner string)
}
