package server

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
)

// reloadHub tells every open page to reload.
type reloadHub struct {
	mu    sync.RWMutex
	pages map[chan struct{}]struct{}
	// first is used to reload pages that reconnect after a restart.
	first sync.Once
}

func newReloadHub() *reloadHub {
	return &reloadHub{pages: make(map[chan struct{}]struct{})}
}

func (h *reloadHub) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.pages[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *reloadHub) Unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	delete(h.pages, ch)
	h.mu.Unlock()
}

// Broadcast signals all pages. Pages with a pending signal are skipped.
func (h *reloadHub) Broadcast() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.pages {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Listeners returns the number of connected pages.
func (h *reloadHub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pages)
}

func (s *Server) setupReload(r chi.Router) {
	r.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		ch := s.reloads.Subscribe()
		defer s.reloads.Unsubscribe(ch)

		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }

		reloaded := false
		s.reloads.first.Do(func() {
			reload()
			reloaded = true
		})
		if reloaded {
			return
		}

		select {
		case <-ch:
			reload()
		case <-r.Context().Done():
		}
	})

	r.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		s.reloads.Broadcast()
		_, _ = w.Write([]byte("OK"))
	})
}
