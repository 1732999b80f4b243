// Package classify decides whether a locally cached image was built on this
// host or pulled from a registry.
//
// The decision is a best-effort heuristic over the image's repository name and
// the runtime's recorded registry digests, evaluated as a strictly ordered rule
// chain where the first matching rule wins. The chain and its allow-list of
// well-known single-word public images are not authoritative: an unlisted,
// undotted, un-namespaced repository with a digest present is always classified
// as a local build, which can skip a genuine registry image. That behavior is
// deliberate and documented rather than guessed around.
package classify
