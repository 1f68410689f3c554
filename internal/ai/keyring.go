package ai

import (
	"strings"
	"sync/atomic"
)

// KeyRing hands out API keys round-robin so that request quota is spread
// across several keys of the same account.
type KeyRing struct {
	keys []string
	next atomic.Uint64
}

// NewKeyRing builds a KeyRing from a comma separated list.
// Blank entries are dropped.
func NewKeyRing(list string) *KeyRing {
	ring := &KeyRing{}
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			ring.keys = append(ring.keys, k)
		}
	}
	return ring
}

// Len returns the number of keys in the ring.
func (r *KeyRing) Len() int {
	return len(r.keys)
}

// Next returns the next key, or "" if the ring is empty.
func (r *KeyRing) Next() string {
	if len(r.keys) == 0 {
		return ""
	}
	n := r.next.Add(1) - 1
	return r.keys[n%uint64(len(r.keys))]
}
