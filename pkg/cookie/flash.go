package cookie

import (
	"encoding/json"
	"maps"
	"net/http"
)

// FlashCookie is the name of the cookie holding flash messages.
const FlashCookie = "_flash"

// Flash holds messages set during one request and shown on the next.
// Messages read during a request are discarded after it unless kept.
type Flash struct {
	incoming map[string]string
	outgoing map[string]string
	now      map[string]string
	changed  bool
}

// LoadFlash reads the messages left by the previous request.
// A missing or unreadable cookie yields an empty Flash.
func (m *Manager) LoadFlash(r *http.Request) *Flash {
	f := &Flash{
		incoming: map[string]string{},
		outgoing: map[string]string{},
		now:      map[string]string{},
	}
	if m.secret == nil {
		return f
	}

	raw, err := m.GetEncrypted(r, FlashCookie)
	if err != nil {
		return f
	}
	if json.Unmarshal([]byte(raw), &f.incoming) == nil && len(f.incoming) > 0 {
		// Delivered messages are consumed.
		f.changed = true
	}
	return f
}

// SaveFlash writes messages for the next request, or clears the cookie when
// there are none. It is a no-op when nothing changed.
func (m *Manager) SaveFlash(w http.ResponseWriter, f *Flash) error {
	if f == nil || !f.changed {
		return nil
	}
	if len(f.outgoing) == 0 {
		m.Delete(w, FlashCookie)
		return nil
	}
	if m.secret == nil {
		return ErrNoSecret
	}

	data, err := json.Marshal(f.outgoing)
	if err != nil {
		return err
	}
	return m.SetEncrypted(w, FlashCookie, string(data), 0)
}

// Get returns a message visible in this request: one left by the previous
// request or one set with Now.
func (f *Flash) Get(key string) string {
	if v, ok := f.now[key]; ok {
		return v
	}
	return f.incoming[key]
}

// All returns every message visible in this request.
func (f *Flash) All() map[string]string {
	out := maps.Clone(f.incoming)
	maps.Copy(out, f.now)
	return out
}

// Set stores a message for the next request.
func (f *Flash) Set(key, msg string) {
	f.outgoing[key] = msg
	f.changed = true
}

// Now stores a message for this request only.
func (f *Flash) Now(key, msg string) {
	f.now[key] = msg
}

// Keep carries incoming messages over to the next request. With no keys,
// every message is kept.
func (f *Flash) Keep(keys ...string) {
	if len(keys) == 0 {
		for k, v := range f.incoming {
			if _, set := f.outgoing[k]; !set {
				f.outgoing[k] = v
			}
		}
	}
	for _, k := range keys {
		if v, ok := f.incoming[k]; ok {
			if _, set := f.outgoing[k]; !set {
				f.outgoing[k] = v
			}
		}
	}
	f.changed = true
}
