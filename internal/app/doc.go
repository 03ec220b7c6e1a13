// Package app runs one grouping pass end to end.
//
// A run obtains its input (scanning a source directory, or generating test
// files first), groups the records, optionally validates the partition and
// saves the manifest. Each step is timed through log.Timed and every log line
// of a run carries the same run_id.
package app
