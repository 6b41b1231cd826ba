// Package fileutil writes output artifacts atomically and reports their
// content digests.
package fileutil
