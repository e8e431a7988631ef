// Package walker discovers candidate photo files under a source root.
//
// Traversal is depth-first, sequential, and lexicographically ordered so two
// runs over the same tree visit files in the same order. It runs
// single-threaded on purpose: directory listing against a shared network
// mount is metadata-only, and concurrent listings risk request storms for
// little gain.
//
// Symlinks are skipped uniformly, whether they point at files or
// directories. Network shares commonly surface reparse points and
// cross-mount links; following them risks cycles and double-ingestion of
// mirrored trees. Unreadable directories are reported to the caller and
// skipped rather than aborting the walk.
package walker
