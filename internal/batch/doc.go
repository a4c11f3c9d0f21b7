// Package batch implements a generic bounded-group gateway.
//
// Items accumulate in a buffer and flush to a downstream function either
// when the group is full, when the oldest item has waited past a deadline,
// or on demand. Every flush returns an explicit success/failure partition
// that accounts for each submitted item exactly once, which lets callers
// report partial failures instead of aborting whole runs.
package batch
