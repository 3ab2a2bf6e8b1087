// Package scheduler triggers the recurring catalog refresh.
package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// OnRefreshDue is called when the schedule fires.
type OnRefreshDue func()

// Scheduler fires the refresh callback on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	callback OnRefreshDue
}

func New(schedule string, cb OnRefreshDue) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		callback: cb,
	}
}

// Start registers the schedule and begins the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		log.Printf("[scheduler] catalog refresh due (%s)", s.schedule)
		s.callback()
	})
	if err != nil {
		return fmt.Errorf("parse schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Printf("[scheduler] catalog refresh scheduled: %s", s.schedule)
	return nil
}

// Stop halts the cron loop; running callbacks finish on their own.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[scheduler] scheduler stopped")
}
