// Package archive stores pass journals.
//
// A run is archived as two objects under the scenario name: the binary
// journal (every pass's frames, as written by scenario.Result.WriteJournal),
// compressed with zstd, and a JSON manifest carrying a run id, the BLAKE3
// digest of the uncompressed journal and the pass summaries.
//
//	store, err := archive.Open(ctx, "s3://bucket/journals", archive.WithRegion("eu-west-1"))
//	m, err := archive.Write(ctx, store, result, time.Now())
//
// Archived journals are read back through OpenJournal.
//
// Locations are either a directory path or s3://bucket/prefix. S3
// credentials come from the standard AWS environment variables.
package archive
