// Package testsupport provides shared fixtures for snapsort tests: temp-dir
// seeded configs and helpers for writing source trees with known content.
package testsupport
