// Package agentregistry implements the in-memory Agent Registry: a
// cache over the durable agent store, visibility filtering by owner and
// coop_agents opt-in, and the default agent/tool seed set.
package agentregistry

import (
	"context"
	"regexp"
	"sync"

	"github.com/coragent/coor-agent/agentstore"
	"github.com/coragent/coor-agent/coorerr"
)

// Registry is the shared, in-memory index over the durable agent store.
// Reads are lock-free after warm-up in the sense that they only take a
// read lock; writes (Create/Edit/Remove) take the exclusive lock, flush
// to the store, then update the index.
type Registry struct {
	store agentstore.Store

	mu     sync.RWMutex
	byName map[string]agentstore.Definition
	order  []string
}

// New builds a Registry over store and warms its index from LoadAll.
func New(ctx context.Context, store agentstore.Store) (*Registry, error) {
	r := &Registry{store: store, byName: make(map[string]agentstore.Definition)}
	defs, err := store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		r.byName[def.AgentName] = def
		r.order = append(r.order, def.AgentName)
	}
	return r, nil
}

// Create persists a new definition and publishes it into the index.
func (r *Registry) Create(ctx context.Context, def agentstore.Definition) (agentstore.Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created, err := r.store.Create(ctx, def)
	if err != nil {
		return agentstore.Definition{}, err
	}
	r.byName[created.AgentName] = created
	r.order = append(r.order, created.AgentName)
	return created, nil
}

// Edit persists a change and republishes the updated snapshot into the
// index. A run that already resolved the prior definition keeps using
// its own snapshot; only subsequent resolves observe the edit.
func (r *Registry) Edit(ctx context.Context, def agentstore.Definition) (agentstore.Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated, err := r.store.Edit(ctx, def)
	if err != nil {
		return agentstore.Definition{}, err
	}
	r.byName[updated.AgentName] = updated
	return updated, nil
}

// Remove deletes a definition from both durable and in-memory state.
func (r *Registry) Remove(ctx context.Context, ownerID, agentName string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Remove(ctx, ownerID, agentName, isAdmin); err != nil {
		return err
	}
	delete(r.byName, agentName)
	for i, name := range r.order {
		if name == agentName {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Resolve returns a snapshot of one agent's definition. The caller owns
// the returned value for the remainder of its run even if a concurrent
// Edit later changes the registry's copy.
func (r *Registry) Resolve(agentName string) (agentstore.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byName[agentName]
	if !ok {
		return agentstore.Definition{}, coorerr.New(coorerr.NotFound, "AgentRegistry", "Resolve", "agent not found: "+agentName, nil)
	}
	return def, nil
}

// Visible reports whether def is visible to callerID, either because it
// is share-owned, owned by callerID, or explicitly named in coopAgents.
func Visible(def agentstore.Definition, callerID string, coopAgents []string) bool {
	if def.IsShared() {
		return true
	}
	if def.OwnerID == callerID {
		return true
	}
	for _, name := range coopAgents {
		if name == def.AgentName {
			return true
		}
	}
	return false
}

// List returns every definition visible to callerID, optionally further
// restricted to names matching pattern, in registry insertion order.
func (r *Registry) List(callerID, pattern string, coopAgents []string) ([]agentstore.Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var re *regexp.Regexp
	var err error
	if pattern != "" {
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, coorerr.New(coorerr.ValidationError, "AgentRegistry", "List", "invalid match pattern", err)
		}
	}

	out := make([]agentstore.Definition, 0, len(r.order))
	for _, name := range r.order {
		def := r.byName[name]
		if callerID != "" && !Visible(def, callerID, coopAgents) {
			continue
		}
		if re != nil && !re.MatchString(def.AgentName) {
			continue
		}
		out = append(out, def)
	}
	return out, nil
}
