package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// Keyer derives cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey keys the grid computed from a recipe source.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys one rendered output of a grid.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds everything besides the source that affects layout.
type LayoutKeyOpts struct {
	// Version is bumped whenever the layout algorithm changes output.
	Version int `json:"version"`
	// Detailed selects the annotated flow diagram stored with the layout.
	Detailed bool `json:"detailed,omitempty"`
}

// ArtifactKeyOpts holds everything besides the grid that affects a render.
type ArtifactKeyOpts struct {
	Format     string   `json:"format"`
	Standalone bool     `json:"standalone,omitempty"`
	Classes    []string `json:"classes,omitempty"`
	Header     string   `json:"header,omitempty"`
	Footer     string   `json:"footer,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sourceHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

// Hash returns the hex SHA-256 digest of data. Recipe sources and encoded
// layouts are hashed with it before keying.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins prefix with the digest of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
