package classify

// knownPublicImages is a fixed allow-list of well-known single-word official
// image names. A repository matching one of these is assumed to originate from
// a public registry even though its digest prefix carries no registry host.
// The list is a non-exhaustive snapshot; unknown names fall through to the
// local-build default.
var knownPublicImages = map[string]struct{}{
	"nginx":         {},
	"postgres":      {},
	"redis":         {},
	"mysql":         {},
	"mongo":         {},
	"ubuntu":        {},
	"debian":        {},
	"alpine":        {},
	"python":        {},
	"node":          {},
	"golang":        {},
	"java":          {},
	"openjdk":       {},
	"httpd":         {},
	"memcached":     {},
	"rabbitmq":      {},
	"elasticsearch": {},
	"mariadb":       {},
	"traefik":       {},
	"caddy":         {},
	"registry":      {},
	"vault":         {},
	"consul":        {},
	"jenkins":       {},
	"sonarqube":     {},
}
