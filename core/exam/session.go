package exam

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core"
)

var (
	ErrSessionNotFound  = errors.New("wizard session not found")
	ErrCommitInProgress = errors.New("a commit is already in progress for this wizard")
)

type session struct {
	wizard     Wizard
	operator   core.Operator
	touchedAt  time.Time
	committing bool
}

// Sessions keeps the open wizards in memory, keyed by session ID.
// Sessions idle for longer than the TTL are purged by the janitor.
type Sessions struct {
	mu    sync.RWMutex
	items map[string]*session
	ttl   time.Duration
	now   func() time.Time // mockable

	stop chan struct{}
	done chan struct{}
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		items: make(map[string]*session),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Open stores w and returns the new session ID.
func (ss *Sessions) Open(w Wizard, op core.Operator) string {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	id := uuid.NewString()
	ss.items[id] = &session{wizard: w, operator: op, touchedAt: ss.now()}
	return id
}

func (ss *Sessions) Get(id string) (Wizard, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.items[id]
	if !ok {
		return Wizard{}, ErrSessionNotFound
	}
	sess.touchedAt = ss.now()
	return sess.wizard, nil
}

func (ss *Sessions) Operator(id string) (core.Operator, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	sess, ok := ss.items[id]
	if !ok {
		return core.Operator{}, ErrSessionNotFound
	}
	return sess.operator, nil
}

// Update applies fn to the session's wizard and stores the result.
// Nothing is stored when fn fails. Updates are refused while a commit is in flight.
func (ss *Sessions) Update(id string, fn func(Wizard) (Wizard, error)) (Wizard, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.items[id]
	if !ok {
		return Wizard{}, ErrSessionNotFound
	}
	if sess.committing {
		return sess.wizard, ErrCommitInProgress
	}
	sess.touchedAt = ss.now()

	w, err := fn(sess.wizard)
	if err != nil {
		return sess.wizard, err
	}
	sess.wizard = w
	return w, nil
}

func (ss *Sessions) Delete(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.items[id]; !ok {
		return ErrSessionNotFound
	}
	delete(ss.items, id)
	return nil
}

func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.items)
}

// beginCommit flags the session as committing and returns its wizard.
func (ss *Sessions) beginCommit(id string) (Wizard, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.items[id]
	if !ok {
		return Wizard{}, ErrSessionNotFound
	}
	if sess.committing {
		return Wizard{}, ErrCommitInProgress
	}
	sess.committing = true
	sess.touchedAt = ss.now()
	return sess.wizard, nil
}

// endCommit drops the session when the commit succeeded, or releases it otherwise.
func (ss *Sessions) endCommit(id string, succeeded bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.items[id]
	if !ok {
		return
	}
	if succeeded {
		delete(ss.items, id)
		return
	}
	sess.committing = false
	sess.touchedAt = ss.now()
}

// Purge removes the sessions idle since before the TTL and returns how many were removed.
// Sessions with a commit in flight are kept.
func (ss *Sessions) Purge() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	deadline := ss.now().Add(-ss.ttl)
	var n int
	for id, sess := range ss.items {
		if !sess.committing && sess.touchedAt.Before(deadline) {
			delete(ss.items, id)
			n++
		}
	}
	return n
}

const defaultJanitorInterval = time.Minute

// StartJanitor purges expired sessions every interval until Stop is called.
// A non-positive interval falls back to one minute.
func (ss *Sessions) StartJanitor(interval time.Duration, log core.Logger) {
	if interval <= 0 {
		if log != nil {
			log.Warn("invalid janitor interval, using the default", map[string]interface{}{
				"interval": interval.String(),
				"default":  defaultJanitorInterval.String(),
			})
		}
		interval = defaultJanitorInterval
	}

	ss.mu.Lock()
	if ss.stop != nil {
		ss.mu.Unlock()
		return
	}
	ss.stop = make(chan struct{})
	ss.done = make(chan struct{})
	stop, done := ss.stop, ss.done
	ss.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := ss.Purge(); n > 0 && log != nil {
					log.Debug("expired wizard sessions purged", map[string]interface{}{"count": n})
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the janitor and waits for it to return.
func (ss *Sessions) Stop() {
	ss.mu.Lock()
	stop, done := ss.stop, ss.done
	ss.stop, ss.done = nil, nil
	ss.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
