// Package group partitions file records into groups whose total size stays
// within a ceiling.
//
// Two strategies are provided:
//
//   - [Sequential] ("default") fills one group at a time in input order and
//     closes it as soon as the next file would not fit.
//   - [Compact] ("compact") sorts files by descending size and places each
//     one into the earliest open group with room for it (first-fit-decreasing).
//
// A file larger than the ceiling is never split: it is placed alone in an
// oversize group and a warning is added to the partition.
//
//	p, err := group.Group(ctx, group.FromSlice(records), group.Config{
//	    MaxGroupSizeBytes: 64 << 20,
//	    Method:            domain.MethodCompact,
//	})
package group
