// Package flags manages command-line flags and environment variables for
// imagerefresh configuration.
package flags
