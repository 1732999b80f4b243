package classify

import (
	"maps"

	"github.com/sirupsen/logrus"
)

// emptyListMarker is the textual rendering the runtime produces for an image
// with no recorded registry digests.
const emptyListMarker = "[]"

// Result is the outcome of classifying one image.
type Result int

const (
	// Local marks an image built (or tagged) on this host; it has no registry
	// origin to refresh from.
	Local Result = iota
	// RegistryOrigin marks an image pulled from a registry; re-pulling it may
	// yield a newer digest.
	RegistryOrigin
)

// String returns the human-readable result name.
func (r Result) String() string {
	if r == Local {
		return "local"
	}

	return "registry-origin"
}

// Classifier decides whether an image is a local build. It is stateless apart
// from its rule chain and safe for concurrent use.
type Classifier struct {
	rules []rule
}

// Option customizes a Classifier during construction.
type Option func(*options)

type options struct {
	extraKnownImages []string
}

// WithExtraKnownImages extends the built-in allow-list of well-known
// single-word public image names, so the list can be fed from configuration.
func WithExtraKnownImages(names ...string) Option {
	return func(o *options) {
		o.extraKnownImages = append(o.extraKnownImages, names...)
	}
}

// New creates a Classifier with the default rule chain. Rule order is a
// deliberate tie-break policy: the no-digest check precedes everything else,
// so an image without a registry digest classifies Local even when its name
// would otherwise match a later rule.
//
// Parameters:
//   - opts: Optional configuration (e.g. allow-list extensions).
//
// Returns:
//   - *Classifier: Ready-to-use classifier.
func New(opts ...Option) *Classifier {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	allowlist := maps.Clone(knownPublicImages)
	for _, name := range cfg.extraKnownImages {
		allowlist[name] = struct{}{}
	}

	return &Classifier{
		rules: []rule{
			noDigestRule{},
			loopbackRegistryRule{},
			digestPrefixRule{allowlist: allowlist},
		},
	}
}

// Classify decides whether the image identified by repository and tag is a
// local build or has a registry origin.
//
// The digestList argument is the raw textual rendering of the runtime's
// registry-digest list for the image: either empty, the empty-list marker
// "[]", or one or more "<prefix>@sha256:<hex>" strings. When no rule is
// decisive (non-empty but malformed digest list), the conservative default is
// RegistryOrigin so a refresh is attempted rather than silently skipped.
//
// Parameters:
//   - repository: Non-empty repository name as printed by the runtime.
//   - tag: Non-empty tag name.
//   - digestList: Raw registry-digest list rendering.
//
// Returns:
//   - Result: Local or RegistryOrigin.
func (c *Classifier) Classify(repository, tag, digestList string) Result {
	in := input{repository: repository, tag: tag, digestList: digestList}

	for _, r := range c.rules {
		result, decisive := r.Apply(in)
		if !decisive {
			continue
		}

		logrus.WithFields(logrus.Fields{
			"image":  repository + ":" + tag,
			"rule":   r.Name(),
			"result": result.String(),
		}).Trace("Classified image")

		return result
	}

	logrus.WithFields(logrus.Fields{
		"image":       repository + ":" + tag,
		"digest_list": digestList,
	}).Debug("No classification rule was decisive, defaulting to registry origin")

	return RegistryOrigin
}
