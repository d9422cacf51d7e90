package session

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StartSweeper schedules periodic eviction of idle sessions. Stop the
// returned scheduler on shutdown.
func StartSweeper(store *Store, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := store.Sweep(); n > 0 {
			log.Printf("session sweeper: evicted %d idle sessions", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
