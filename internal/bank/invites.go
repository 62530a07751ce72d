package bank

import "sync"

// inviteRegistry tracks the single pending joint-account invite per player.
// Markers live in process memory only and do not survive a restart. A new
// invite overwrites any unresolved one: last invite wins.
type inviteRegistry struct {
	mu      sync.Mutex
	pending map[string]string // canonical player key -> joint account display name
}

func newInviteRegistry() *inviteRegistry {
	return &inviteRegistry{pending: make(map[string]string)}
}

func (r *inviteRegistry) set(playerKey, jointName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[playerKey] = jointName
}

func (r *inviteRegistry) get(playerKey string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jointName, ok := r.pending[playerKey]
	return jointName, ok
}

func (r *inviteRegistry) clear(playerKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, playerKey)
}
