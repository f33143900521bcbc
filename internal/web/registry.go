package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mock-interview/internal/backend"
	"mock-interview/internal/interview"
)

// uiSession — состояние одного браузера. mu сериализует события:
// пока идет один запрос, следующий ждет.
type uiSession struct {
	mu sync.Mutex

	id         string
	candidate  *backend.Candidate
	client     *backend.Client
	controller *interview.Controller
	session    *interview.Session
	// lastActivity меняется только под блокировкой реестра
	lastActivity time.Time
}

// Registry хранит UI сессии в памяти процесса
type Registry struct {
	sessions map[string]*uiSession
	mutex    sync.RWMutex
	ttl      time.Duration
	newUI    func(id string) *uiSession
}

func NewRegistry(ttl time.Duration, newUI func(id string) *uiSession) *Registry {
	return &Registry{
		sessions: make(map[string]*uiSession),
		ttl:      ttl,
		newUI:    newUI,
	}
}

func (r *Registry) get(id string) (*uiSession, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	ui, ok := r.sessions[id]
	return ui, ok
}

// getOrCreate возвращает сессию по id или создает новую с новым id.
// lastActivity обновляется под блокировкой реестра, поэтому Cleanup
// не удалит сессию, которую только что выдали запросу.
func (r *Registry) getOrCreate(id string) (*uiSession, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	if ui, ok := r.sessions[id]; ok && id != "" {
		ui.lastActivity = now
		return ui, false
	}

	ui := r.newUI(uuid.New().String())
	ui.lastActivity = now
	r.sessions[ui.id] = ui
	return ui, true
}

func (r *Registry) delete(id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.sessions)
}

// Cleanup удаляет сессии, неактивные дольше ttl
func (r *Registry) Cleanup(now time.Time) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cutoff := now.Add(-r.ttl)
	removed := 0
	for id, ui := range r.sessions {
		// занятые сессии пропускаем: по ним идет запрос
		if !ui.mu.TryLock() {
			continue
		}
		if ui.lastActivity.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
		ui.mu.Unlock()
	}
	return removed
}

// StartCleanup периодически чистит реестр до отмены ctx
func (r *Registry) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				r.Cleanup(now)
			}
		}
	}()
}
