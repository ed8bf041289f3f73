package agentstore

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/tool"
)

// ToolResolver is the narrow slice of tool.Registry the store needs: a
// lookup that returns a snapshot-able Info for a tool name.
type ToolResolver interface {
	Get(name string) (tool.Tool, bool)
}

// Store is the durable Agent Store: create/load_all/list/edit/remove
// over AgentDefinition records, each persisted as a single file.
type Store interface {
	Create(ctx context.Context, def Definition) (Definition, error)
	Get(ctx context.Context, agentName string) (Definition, bool, error)
	LoadAll(ctx context.Context) ([]Definition, error)
	List(ctx context.Context, ownerID, pattern string) ([]Definition, error)
	Edit(ctx context.Context, def Definition) (Definition, error)
	Remove(ctx context.Context, ownerID, agentName string, isAdmin bool) error
}

// FileStore persists one YAML file per agent under root, named
// <agent_name>.yaml. Writes go to a temp file in the same directory
// followed by an atomic rename, so a crash mid-write never leaves a
// corrupt record.
type FileStore struct {
	root  string
	tools ToolResolver

	mu    sync.RWMutex
	order []string // agent_name insertion order, for stable List()
}

// NewFileStore creates a FileStore rooted at dir (created if absent) and
// loads the insertion-order index from whatever records already exist on
// disk.
func NewFileStore(dir string, tools ToolResolver) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, coorerr.New(coorerr.Internal, "AgentStore", "NewFileStore", "failed to create store directory", err)
	}
	fs := &FileStore{root: dir, tools: tools}
	if err := fs.rebuildOrder(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *FileStore) path(agentName string) string {
	return filepath.Join(s.root, agentName+".yaml")
}

func (s *FileStore) rebuildOrder() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return coorerr.New(coorerr.Internal, "AgentStore", "rebuildOrder", "failed to list store directory", err)
	}

	type withTime struct {
		name string
		mod  int64
	}
	var found []withTime
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, withTime{name: e.Name()[:len(e.Name())-len(".yaml")], mod: info.ModTime().UnixNano()})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].mod < found[j].mod })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	for _, f := range found {
		s.order = append(s.order, f.name)
	}
	return nil
}

func (s *FileStore) readFile(agentName string) (Definition, bool, error) {
	data, err := os.ReadFile(s.path(agentName))
	if err != nil {
		if os.IsNotExist(err) {
			return Definition{}, false, nil
		}
		return Definition{}, false, coorerr.New(coorerr.Internal, "AgentStore", "readFile", "failed to read agent record", err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, false, coorerr.New(coorerr.Internal, "AgentStore", "readFile", "failed to parse agent record "+agentName, err)
	}
	return def, true, nil
}

func (s *FileStore) writeFile(def Definition) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return coorerr.New(coorerr.Internal, "AgentStore", "writeFile", "failed to marshal agent record", err)
	}

	target := s.path(def.AgentName)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return coorerr.New(coorerr.Internal, "AgentStore", "writeFile", "failed to write agent record", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return coorerr.New(coorerr.Internal, "AgentStore", "writeFile", "failed to commit agent record", err)
	}
	return nil
}

// snapshotTools re-resolves each ToolRef.Name against the tool resolver
// and replaces its Description/InputSchema with the registry's current
// values: a bind-time capture so a later schema change never silently
// alters an already-created agent's contract.
func (s *FileStore) snapshotTools(refs []ToolRef) ([]ToolRef, error) {
	out := make([]ToolRef, 0, len(refs))
	for _, ref := range refs {
		t, ok := s.tools.Get(ref.Name)
		if !ok {
			return nil, coorerr.New(coorerr.NotFound, "AgentStore", "snapshotTools", "unknown tool: "+ref.Name, nil)
		}
		info := t.Info()
		out = append(out, ToolRef{Name: info.Name, Description: info.Description, InputSchema: info.InputSchema})
	}
	return out, nil
}

// Create implements Store.
func (s *FileStore) Create(ctx context.Context, def Definition) (Definition, error) {
	if def.AgentName == "" {
		return Definition{}, coorerr.New(coorerr.ValidationError, "AgentStore", "Create", "agent_name cannot be empty", nil)
	}
	if def.OwnerID == "" {
		return Definition{}, coorerr.New(coorerr.ValidationError, "AgentStore", "Create", "owner_id cannot be empty", nil)
	}
	if !ValidLLMType(def.LLMType) {
		return Definition{}, coorerr.New(coorerr.ValidationError, "AgentStore", "Create", "invalid llm_type: "+def.LLMType, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists, err := s.readFile(def.AgentName); err != nil {
		return Definition{}, err
	} else if exists {
		return Definition{}, coorerr.New(coorerr.AlreadyExists, "AgentStore", "Create", "agent already exists: "+def.AgentName, nil)
	}

	snapped, err := s.snapshotTools(def.Tools)
	if err != nil {
		return Definition{}, err
	}
	def.Tools = snapped
	def.CreatedAt = time.Now().UTC().Round(0)
	def.UpdatedAt = def.CreatedAt

	if err := s.writeFile(def); err != nil {
		return Definition{}, err
	}
	s.order = append(s.order, def.AgentName)
	return def, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, agentName string) (Definition, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readFile(agentName)
}

// LoadAll implements Store, returning every record in insertion order. A
// record that fails to read or parse is logged and skipped rather than
// aborting the scan, so one corrupt file on disk never takes the rest of
// the store down with it.
func (s *FileStore) LoadAll(ctx context.Context) ([]Definition, error) {
	s.mu.RLock()
	names := append([]string(nil), s.order...)
	s.mu.RUnlock()

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		def, ok, err := s.Get(ctx, name)
		if err != nil {
			slog.Warn("skipping invalid agent record", "agent_name", name, "error", err)
			continue
		}
		if ok {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

// List implements Store: filters LoadAll by visibility then by a
// regular-expression match on agent_name. An empty ownerID skips the
// owner filter; an empty pattern matches everything.
func (s *FileStore) List(ctx context.Context, ownerID, pattern string) ([]Definition, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	var re *regexp.Regexp
	if pattern != "" {
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, coorerr.New(coorerr.ValidationError, "AgentStore", "List", "invalid match pattern", err)
		}
	}

	out := make([]Definition, 0, len(all))
	for _, def := range all {
		if ownerID != "" && !def.IsShared() && def.OwnerID != ownerID {
			continue
		}
		if re != nil && !re.MatchString(def.AgentName) {
			continue
		}
		out = append(out, def)
	}
	return out, nil
}

// Edit implements Store. It preserves the existing snapshotted tool
// schemas unless the caller supplies a non-empty Tools list, in which
// case those tools are re-snapshotted from the registry.
func (s *FileStore) Edit(ctx context.Context, def Definition) (Definition, error) {
	if def.AgentName == "" {
		return Definition{}, coorerr.New(coorerr.ValidationError, "AgentStore", "Edit", "agent_name cannot be empty", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists, err := s.readFile(def.AgentName)
	if err != nil {
		return Definition{}, err
	}
	if !exists {
		return Definition{}, coorerr.New(coorerr.NotFound, "AgentStore", "Edit", "agent not found: "+def.AgentName, nil)
	}

	if len(def.Tools) > 0 {
		snapped, err := s.snapshotTools(def.Tools)
		if err != nil {
			return Definition{}, err
		}
		def.Tools = snapped
	} else {
		def.Tools = existing.Tools
	}

	def.OwnerID = existing.OwnerID
	def.CreatedAt = existing.CreatedAt
	def.UpdatedAt = time.Now()

	if err := s.writeFile(def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Remove implements Store. A share-owned agent can only be removed by an
// administrator.
func (s *FileStore) Remove(ctx context.Context, ownerID, agentName string, isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists, err := s.readFile(agentName)
	if err != nil {
		return err
	}
	if !exists {
		return coorerr.New(coorerr.NotFound, "AgentStore", "Remove", "agent not found: "+agentName, nil)
	}
	if existing.IsShared() && !isAdmin {
		return coorerr.New(coorerr.ValidationError, "AgentStore", "Remove", "only an administrator may remove a shared agent", nil)
	}
	if !existing.IsShared() && existing.OwnerID != ownerID && !isAdmin {
		return coorerr.New(coorerr.ValidationError, "AgentStore", "Remove", "caller does not own agent: "+agentName, nil)
	}

	if err := os.Remove(s.path(agentName)); err != nil {
		return coorerr.New(coorerr.Internal, "AgentStore", "Remove", "failed to delete agent record", err)
	}
	for i, name := range s.order {
		if name == agentName {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
