// Package filter selects SCC records with compiled expr-lang expressions.
//
// Expressions see the exported fields of the record type plus a few helpers:
//
//	daysSince(t)            whole days since t
//	daysUntil(t)            whole days until t
//	daysAgo(n)              the time n days ago
//	parseDate("2006-01-02") a date literal
//	containsFold(s, sub)    case-insensitive substring test
//
// The expr builtins (lower, upper, hasPrefix, now, any, all, in, ...) are
// available as well.
package filter
