package dynaprop

import (
	"strings"
	"sync"
)

// Presence records how a property slot came to hold its value.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Value was assigned explicitly or came from input.
	PresenceWasNull                             // Input carried an explicit null.
	PresenceDefaultApplied                      // Slot was materialized with a zero value.
)

// Has reports whether all bits of f are set.
func (p Presence) Has(f Presence) bool { return p&f == f }

// PresenceMap maps property paths to Presence flags. Keys use the path
// expression spelling ("contacts[2].email").
type PresenceMap map[string]Presence

// Filter returns the entries whose path starts with one of the include
// prefixes (all, when none are given) and none of the exclude prefixes.
func (pm PresenceMap) Filter(include, exclude []string) PresenceMap {
	if pm == nil {
		return nil
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		if len(include) > 0 {
			ok := false
			for _, p := range include {
				if strings.HasPrefix(k, p) {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		skip := false
		for _, p := range exclude {
			if strings.HasPrefix(k, p) {
				skip = true
				break
			}
		}
		if !skip {
			out[k] = v
		}
	}
	return out
}

// simple string interner for PresenceMap keys
var (
	_internMu   sync.RWMutex
	_internPool = map[string]string{}
)

func internString(s string) string {
	_internMu.RLock()
	if v, ok := _internPool[s]; ok {
		_internMu.RUnlock()
		return v
	}
	_internMu.RUnlock()

	_internMu.Lock()
	if v, ok := _internPool[s]; ok { // double-check
		_internMu.Unlock()
		return v
	}
	_internPool[s] = s
	_internMu.Unlock()
	return s
}
