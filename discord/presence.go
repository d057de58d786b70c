package discord

import (
	"sync"

	"github.com/brensch/whoson/games"
)

// presenceCache remembers the last activities seen per guild member, since a
// presence update only carries the new state.
type presenceCache struct {
	mu     sync.Mutex
	guilds map[string]map[string][]games.Activity
}

func newPresenceCache() *presenceCache {
	return &presenceCache{guilds: make(map[string]map[string][]games.Activity)}
}

// seed replaces everything known about a guild with the server snapshot.
func (c *presenceCache) seed(server *games.Server) {
	users := make(map[string][]games.Activity, len(server.Members))
	for _, m := range server.Members {
		if len(m.Activities) > 0 {
			users[m.ID] = m.Activities
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.guilds[server.ID] = users
}

// swap stores the new activities and returns the previous ones.
func (c *presenceCache) swap(guildID, userID string, activities []games.Activity) []games.Activity {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, ok := c.guilds[guildID]
	if !ok {
		users = make(map[string][]games.Activity)
		c.guilds[guildID] = users
	}

	before := users[userID]
	if len(activities) == 0 {
		delete(users, userID)
	} else {
		users[userID] = activities
	}
	return before
}

func (c *presenceCache) forget(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.guilds, guildID)
}
