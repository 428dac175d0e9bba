package types

import "sort"

// Agent is one entry of the statically configured roster
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Roster is the fixed set of known agents for a run. Identities are immutable
// after construction; everything not in the roster is treated as unknown.
type Roster struct {
	agents []Agent
	byID   map[string]Agent
	byName map[string]Agent
}

// NewRoster builds a roster from the configured agents
func NewRoster(agents []Agent) *Roster {
	r := &Roster{
		agents: make([]Agent, 0, len(agents)),
		byID:   make(map[string]Agent, len(agents)),
		byName: make(map[string]Agent, len(agents)),
	}
	for _, a := range agents {
		if a.ID == "" && a.Name == "" {
			continue
		}
		r.agents = append(r.agents, a)
		if a.ID != "" {
			r.byID[a.ID] = a
		}
		if a.Name != "" {
			r.byName[a.Name] = a
		}
	}
	return r
}

// ByID looks up a known agent by provider user id
func (r *Roster) ByID(id string) (Agent, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// ByName looks up a known agent by display name
func (r *Roster) ByName(name string) (Agent, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// Agents returns the roster in configuration order
func (r *Roster) Agents() []Agent {
	out := make([]Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

// Names returns all known display names, sorted for stable output
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.agents))
	for _, a := range r.agents {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the roster size
func (r *Roster) Len() int {
	return len(r.agents)
}
