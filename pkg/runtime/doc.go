// Package runtime provides the adapter for querying and mutating the local
// container runtime by shelling out to its CLI.
//
// The adapter never talks to the daemon socket or to a registry directly; all
// operations invoke the runtime binary as a subprocess and interpret its
// textual or JSON output. Blocking semantics follow the subprocess: no
// caller-imposed timeouts are applied beyond context cancellation.
package runtime
