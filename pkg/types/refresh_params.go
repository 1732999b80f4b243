package types

// RefreshParams defines options for a refresh run.
type RefreshParams struct {
	DryRun             bool     // Simulate pulls and pruning without mutating the host.
	IncludeLocalBuilds bool     // Refresh images classified as local builds instead of skipping them.
	ExcludeTags        []string // Tags whose images are omitted before processing.
}
