// Package writer moves analyzed photos into the date and location directory
// layout under the destination root. Copies are verified against the source
// fingerprint and retried with backoff, so a flaky network mount degrades a
// run instead of corrupting it.
package writer
