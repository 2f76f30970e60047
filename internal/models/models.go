package models

// EntryKind distinguishes files from directories in a repository listing.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// RepositoryEntry is one row of a repository's recursive tree listing.
type RepositoryEntry struct {
	Path      string    `json:"path"`
	Kind      EntryKind `json:"kind"`
	SizeBytes int       `json:"size_bytes"`
}

// Tier is the selection priority class of a path. Lower values are
// selected first. The numeric values mirror the priority scores the
// selection rules were tuned with; Source is 5 and nothing occupies 4.
type Tier int

const (
	TierREADME   Tier = 0
	TierManifest Tier = 1
	TierBuildOps Tier = 2
	TierCIConfig Tier = 3
	TierSource   Tier = 5

	// TierExcluded marks paths that never become selection candidates.
	TierExcluded Tier = 99
)

func (t Tier) String() string {
	switch t {
	case TierREADME:
		return "readme"
	case TierManifest:
		return "manifest"
	case TierBuildOps:
		return "buildops"
	case TierCIConfig:
		return "ciconfig"
	case TierSource:
		return "source"
	case TierExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// SelectedFile is one file chosen for the model context. Created during
// selection, consumed once by the assembler, then discarded.
type SelectedFile struct {
	Path      string
	Tier      Tier
	Content   string
	Truncated bool
}

// RepoInfo is the repository metadata that heads the assembled context.
type RepoInfo struct {
	Owner         string
	Repo          string
	DefaultBranch string
	Ref           string
	Description   string
	Language      string
	Topics        []string
}

// FullName returns "owner/repo".
func (r RepoInfo) FullName() string {
	return r.Owner + "/" + r.Repo
}

// SummaryResult is the only valid shape of a successful model reply.
type SummaryResult struct {
	Summary      string   `json:"summary"`
	Technologies []string `json:"technologies"`
	Structure    string   `json:"structure"`
}
