package cache

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies a built tree snapshot for a panel file.
	LayoutKey(panelsHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of a snapshot.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the build options that change a layout.
type LayoutKeyOpts struct {
	ResizeOnPromote bool     `json:"resize_on_promote,omitempty"`
	Removed         []string `json:"removed,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Branches bool   `json:"branches,omitempty"`
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(panelsHash string, opts LayoutKeyOpts) string {
	return digestKey("layout", panelsHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return digestKey("artifact", layoutHash, opts)
}
