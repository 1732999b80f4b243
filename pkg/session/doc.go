// Package session tracks per-image outcomes and aggregate statistics for one
// refresh run. State lives only for the duration of a run and is only ever
// touched from the single sequential processing path.
package session
