package classify

import "strings"

// digestSeparator splits a repo digest string into its repository prefix and
// the content hash (e.g. "ghcr.io/user/app@sha256:abc...").
const digestSeparator = "@sha256:"

// input carries the per-image signals a rule inspects.
type input struct {
	repository string // Repository name exactly as the runtime printed it.
	tag        string // Tag name.
	digestList string // Raw textual rendering of the runtime's RepoDigests list.
}

// firstDigest returns the first digest string from the raw list rendering,
// stripping the bracketed-list markers the runtime's template produces.
func (in input) firstDigest() string {
	trimmed := strings.TrimSpace(in.digestList)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// rule is a single step of the classification chain. Apply returns the
// classification and true when the rule is decisive; otherwise the chain
// continues with the next rule.
type rule interface {
	// Name identifies the rule in trace output.
	Name() string
	// Apply evaluates the rule against the image's signals.
	Apply(in input) (Result, bool)
}

// noDigestRule classifies images without any recorded registry digest.
// An image the runtime never associated with a registry digest was never
// pulled from anywhere; it can only have been built on this host.
type noDigestRule struct{}

func (noDigestRule) Name() string { return "no-digest" }

func (noDigestRule) Apply(in input) (Result, bool) {
	trimmed := strings.TrimSpace(in.digestList)
	if trimmed == "" || trimmed == emptyListMarker {
		return Local, true
	}

	return RegistryOrigin, false
}

// loopbackRegistryRule classifies images tagged for a private/dev registry on
// this host. "localhost" and "127.0.0.1" prefixes are conventional markers for
// such registries and are treated as local for refresh purposes.
type loopbackRegistryRule struct{}

func (loopbackRegistryRule) Name() string { return "loopback-registry" }

func (loopbackRegistryRule) Apply(in input) (Result, bool) {
	if strings.HasPrefix(in.repository, "localhost") ||
		strings.HasPrefix(in.repository, "127.0.0.1") {
		return Local, true
	}

	return RegistryOrigin, false
}

// digestPrefixRule examines the repository prefix of the first recorded
// digest. A dotted prefix is a registry hostname (docker.io, ghcr.io, ...),
// recorded only for images pulled from a fully qualified remote origin. An
// undotted prefix falls back to the repository shape: a namespace/image
// reference or an allow-listed official name is hub-style, anything else is
// most plausibly a locally tagged build whose digest survives from a prior
// manual push.
//
// The rule is not decisive when the digest list is malformed (missing the
// "@sha256:" separator); the chain's conservative default applies then.
type digestPrefixRule struct {
	allowlist map[string]struct{}
}

func (digestPrefixRule) Name() string { return "digest-prefix" }

func (r digestPrefixRule) Apply(in input) (Result, bool) {
	digest := in.firstDigest()

	prefix, _, found := strings.Cut(digest, digestSeparator)
	if !found {
		return RegistryOrigin, false
	}

	if strings.Contains(prefix, ".") {
		return RegistryOrigin, true
	}

	if strings.Contains(in.repository, "/") {
		return RegistryOrigin, true
	}

	if _, listed := r.allowlist[in.repository]; listed {
		return RegistryOrigin, true
	}

	return Local, true
}
