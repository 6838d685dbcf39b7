// Package gate wraps the access evaluator for UI gating decisions. It
// single-flights concurrent checks per (user, content) and briefly memoizes
// positive decisions, so a burst of rapid interactions on owned content can
// never flicker into a purchase prompt.
package gate

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Evaluator answers "does this user have access to this content". It must
// be backed by purchase and subscription facts, never by progress-ledger
// reads.
type Evaluator func(userID, contentID uuid.UUID) (bool, error)

type Gate struct {
	eval  Evaluator
	group singleflight.Group

	mu    sync.Mutex
	owned map[string]time.Time
	ttl   time.Duration
	now   func() time.Time
}

func New(eval Evaluator, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Gate{
		eval:  eval,
		owned: make(map[string]time.Time),
		ttl:   ttl,
		now:   time.Now,
	}
}

func gateKey(userID, contentID uuid.UUID) string {
	return userID.String() + ":" + contentID.String()
}

// Check returns the gating decision. Concurrent checks for the same pair
// share one evaluator call; a recent positive decision is reused without
// re-reading, since ownership is only ever gained in this system, not lost.
// Evaluator failures fail closed.
func (g *Gate) Check(userID, contentID uuid.UUID) (bool, error) {
	key := gateKey(userID, contentID)

	g.mu.Lock()
	if exp, ok := g.owned[key]; ok && g.now().Before(exp) {
		g.mu.Unlock()
		return true, nil
	}
	g.mu.Unlock()

	v, err, _ := g.group.Do(key, func() (interface{}, error) {
		return g.eval(userID, contentID)
	})
	if err != nil {
		return false, err
	}

	hasAccess := v.(bool)
	if hasAccess {
		g.mu.Lock()
		g.owned[key] = g.now().Add(g.ttl)
		g.mu.Unlock()
	}
	return hasAccess, nil
}

// Refresh drops the user's memoized decisions so the next check re-reads
// facts. Called after any purchase-completion signal.
func (g *Gate) Refresh(userID uuid.UUID) {
	prefix := userID.String() + ":"
	g.mu.Lock()
	defer g.mu.Unlock()
	for key := range g.owned {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(g.owned, key)
		}
	}
}
