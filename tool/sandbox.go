package tool

import (
	"path/filepath"
	"strings"

	"github.com/coragent/coor-agent/coorerr"
)

// Sandbox confines a local tool's filesystem access to a single root
// directory; every local tool in this package that touches the
// filesystem goes through one.
type Sandbox struct {
	Root string
}

// Resolve joins rel against the sandbox root and rejects any result that
// escapes it (via "..", absolute paths, or symlink-free lexical tricks).
func (s Sandbox) Resolve(rel string) (string, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", coorerr.New(coorerr.Internal, "Sandbox", "Resolve", "cannot resolve sandbox root", err)
	}

	joined := filepath.Join(root, rel)
	cleaned := filepath.Clean(joined)

	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return "", coorerr.New(coorerr.ToolError, "Sandbox", "Resolve", "path escapes sandbox root: "+rel, nil)
	}

	return cleaned, nil
}
