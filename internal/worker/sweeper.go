// Package worker hosts the scheduled cache janitor. The budget tracker
// deliberately has no scheduled job: its day-boundary reset is lazy.
package worker

import (
	"log"

	"github.com/newsly/newsly/internal/cache"
	"github.com/robfig/cron/v3"
)

// Sweeper periodically drops expired cache entries so long-idle keys do
// not pin memory between requests.
type Sweeper struct {
	cache *cache.Cache
	cron  *cron.Cron
	spec  string
}

// NewSweeper creates a sweeper running on the given cron spec
// (e.g. "@every 15m").
func NewSweeper(c *cache.Cache, spec string) *Sweeper {
	return &Sweeper{
		cache: c,
		cron:  cron.New(),
		spec:  spec,
	}
}

// Start schedules the sweep job.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if removed := s.cache.Sweep(); removed > 0 {
			log.Printf("[Sweeper] Removed %d expired cache entries", removed)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[Sweeper] Scheduled cache sweep (%s)", s.spec)
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
