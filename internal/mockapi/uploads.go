package mockapi

import (
	"sort"
	"sync"
	"time"
)

type upload struct {
	data       []byte
	uploadedAt time.Time
}

// uploadStore keeps uploaded files by name. A re-upload replaces the entry.
type uploadStore struct {
	mu    sync.RWMutex
	files map[string]upload
}

func newUploadStore() *uploadStore {
	return &uploadStore{files: make(map[string]upload)}
}

func (s *uploadStore) put(name string, data []byte, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = upload{data: append([]byte(nil), data...), uploadedAt: at}
}

func (s *uploadStore) get(name string) (upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.files[name]
	return u, ok
}

func (s *uploadStore) names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
