// Package cleanup defines the unit of deletion work and the ordered plan
// that drives it.
//
// A [Step] deletes every record of one collection that references a
// subject and reports a tagged [Result]:
//
//	completed         matched records were deleted in one atomic batch
//	skipped           nothing matched
//	failed_tolerated  the query or the batch failed; the cause is recorded
//
// A step never returns an error and never panics outward, so a failing
// collection cannot stop the steps after it.
//
// A [Plan] is the fixed order of tolerated steps followed by exactly one
// terminal [RemovalStep] that removes the identity itself.
package cleanup
