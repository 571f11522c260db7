package monsterimage

// GenerateInput names the creature to illustrate
type GenerateInput struct {
	MonsterName string
}

// GenerateOutput is the stored image path. Cached is true when no provider
// call was needed.
type GenerateOutput struct {
	URL    string
	Cached bool
}

type RegenerateInput struct {
	MonsterName string
}

type RegenerateOutput struct {
	URL string
}

// SaveInput promotes ImageURL to the canonical image for MonsterName.
// ImageURL may be a stored blob path (relative, or absolute on Host, with or
// without a query), a remote http(s) URL, or a data URI.
type SaveInput struct {
	MonsterName string
	ImageURL    string
	// Host is the host the request was addressed to. Absolute URLs on any
	// other host are downloaded even when their path looks like a blob path.
	Host string
}

type SaveOutput struct {
	Path string
}

type SnapshotInput struct{}

type SnapshotOutput struct {
	Images map[string]string
}

// SeedInput carries a bundled name -> url map; existing entries win
type SeedInput struct {
	Images map[string]string
}

type SeedOutput struct {
	Added int
}

// PruneInput removes map entries whose stored blob no longer exists.
// DryRun only reports them.
type PruneInput struct {
	DryRun bool
}

type PruneOutput struct {
	Checked int
	Missing []string
	Removed int
}
