// Package actions provides the core logic for imagerefresh's update
// operations: precondition checks, the per-image refresh loop, and the
// post-run prune of dangling images.
package actions
