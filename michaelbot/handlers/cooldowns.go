package handlers

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type cooldownKey struct {
	userID  snowflake.ID
	command string
}

// Cooldowns rejects repeat invocations of a command within its window.
// State is in-memory only; a restart clears all cooldowns.
type Cooldowns struct {
	mu   sync.Mutex
	last map[cooldownKey]time.Time
	now  func() time.Time
}

func NewCooldowns() *Cooldowns {
	return &Cooldowns{last: map[cooldownKey]time.Time{}, now: time.Now}
}

// Check starts the cooldown and returns zero, or returns the remaining
// wait when the window is still open.
func (c *Cooldowns) Check(userID snowflake.ID, command string, window time.Duration) time.Duration {
	key := cooldownKey{userID: userID, command: command}

	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.last[key]; ok {
		if rem := window - c.now().Sub(last); rem > 0 {
			return rem
		}
	}
	c.last[key] = c.now()
	return 0
}

// Reset clears the cooldown, for commands whose outcome asks the user
// to retry immediately.
func (c *Cooldowns) Reset(userID snowflake.ID, command string) {
	c.mu.Lock()
	delete(c.last, cooldownKey{userID: userID, command: command})
	c.mu.Unlock()
}
