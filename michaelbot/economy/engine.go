// Package economy implements the item/economy game: actions, travel,
// market, trade, barter, crafting, brewing, equipment, potions, dailies
// and badges. Mutating operations run inside one transaction each, and
// outcomes that are notifications rather than failures (a tool breaking,
// a potion running out) travel in the result structs.
package economy

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/cache"
	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/disgoorg/snowflake/v2"
)

// RNG is the randomness the engine consumes. Tests inject a scripted
// implementation; production uses a locked math/rand source.
type RNG interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

type lockedRNG struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (r *lockedRNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

func (r *lockedRNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func NewRNG() RNG {
	return &lockedRNG{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

type Engine struct {
	store   repositories.Store
	catalog *catalog.Catalog
	users   *cache.Users
	rng     RNG
	now     func() time.Time

	trade  *OfferBoard
	barter *OfferBoard
}

func NewEngine(store repositories.Store, cat *catalog.Catalog, users *cache.Users, rng RNG) *Engine {
	if rng == nil {
		rng = NewRNG()
	}
	return &Engine{
		store:   store,
		catalog: cat,
		users:   users,
		rng:     rng,
		now:     time.Now,
		trade:   &OfferBoard{},
		barter:  &OfferBoard{},
	}
}

func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// item resolves an id that has already been through catalog.Lookup.
func (e *Engine) item(id string) (*catalog.Item, error) {
	item, ok := e.catalog.Get(id)
	if !ok {
		return nil, errs.New(errs.NotFound, "unknown item %s", id)
	}
	return item, nil
}

// refreshUser reloads the user row inside tx and mirrors it into the
// cache after the caller's transaction commits.
func (e *Engine) syncUser(ctx context.Context, id snowflake.ID) {
	_, _ = e.users.ForceSync(ctx, id)
}

// AwardBadges walks the user's inventory and grants every
// quantity-threshold badge it satisfies. Idempotent; returns the ids of
// freshly earned badges.
func (e *Engine) AwardBadges(ctx context.Context, userID snowflake.ID) ([]string, error) {
	slots, err := e.store.Inventory().GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(slots))
	for _, slot := range slots {
		counts[slot.ItemID] = slot.Amount
	}

	var earned []string
	for _, def := range e.catalog.Badges() {
		if counts[def.ThresholdItem] < def.Threshold {
			continue
		}
		n, err := e.store.Badges().Award(ctx, userID, def.ID)
		if err != nil {
			return earned, err
		}
		if n > 0 {
			earned = append(earned, def.ID)
		}
	}
	return earned, nil
}

// hasBadge consults the persistent badge set inside tx.
func hasBadge(badges []*models.UserBadge, id string) bool {
	for _, b := range badges {
		if b.BadgeID == id {
			return true
		}
	}
	return false
}
