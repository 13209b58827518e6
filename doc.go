// Package floe provides checkpoint discovery and metadata loading for
// streaming jobs, plus a synchronous run harness for driving a job to
// completion in tests.
//
// Floe is designed as a library, not a service. A streaming job
// periodically persists its state as a checkpoint: a directory named
// "chk-<id>" containing state files and a single metadata file. Floe
// finds the most recent complete checkpoint under a root directory,
// resolves a checkpoint pointer into its metadata blob, and decodes
// that blob into a structured record.
//
// # Quick Start
//
//	s := checkpoint.NewScanner()
//	h, err := s.MostRecentCompleted(ctx, root)
//	if err != nil {
//	    return err
//	}
//	md, err := metadata.Load(ctx, fs.NewResolver(), h.Path, metadata.DefaultRegistry())
//
// # Architecture
//
// Floe follows a composable boundary pattern: each concern defines its
// own small interface and backends implement them. The checkpoint
// scanner walks a filesystem layout; the storage package resolves
// pointers into metadata streams; the harness package drives job
// execution through Environment and JobClient capabilities supplied by
// the caller. The execution fabric itself (job graphs, cluster
// transport) is never reimplemented here.
//
// Job submission handles use TypeID — type-prefixed, K-sortable,
// UUIDv7-based, compile-time safe identifiers.
package floe
