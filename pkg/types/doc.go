// Package types defines shared data structures and interfaces for imagerefresh.
package types
