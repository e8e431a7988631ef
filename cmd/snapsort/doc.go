// Command snapsort organizes photo collections into a date and location
// directory hierarchy, deduplicating by content fingerprint.
package main
