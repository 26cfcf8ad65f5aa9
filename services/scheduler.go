// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartScheduler runs the automation pipeline at midnight and noon UTC and a
// ring recompute sweep after each run. Safe to re-run back to back: settlement
// claims are atomic and unchanged rings write nothing.
func (s *AutomationService) StartScheduler(ctx context.Context) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Printf("[Scheduler] Failed to create scheduler: %v", err)
		return
	}

	run := func() {
		if _, err := s.RunAutomation(ctx); err != nil {
			log.Printf("[Scheduler] Automation run failed: %v", err)
			return
		}
		if _, err := s.Rings.ClassifyAll(); err != nil {
			log.Printf("[Scheduler] Ring recompute failed: %v", err)
		}
	}

	_, _ = sched.NewJob(
		gocron.CronJob("0 0 * * *", false),
		gocron.NewTask(func() {
			log.Println("[Scheduler] Running sports automation (midnight UTC)")
			run()
		}),
	)

	_, _ = sched.NewJob(
		gocron.CronJob("0 12 * * *", false),
		gocron.NewTask(func() {
			log.Println("[Scheduler] Running sports automation (noon UTC)")
			run()
		}),
	)

	sched.Start()
	log.Println("✅ Sports automation scheduler started (00:00 and 12:00 UTC)")

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
}
