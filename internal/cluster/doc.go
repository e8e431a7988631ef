// Package cluster groups geotagged records into shooting locations with
// density-based clustering over great-circle distance.
//
// Input records are ordered by fingerprint before clustering, so cluster
// identifiers are stable across runs and independent of how the records
// were produced upstream.
package cluster
