// Package scheduler runs the engine's background loops, currently the
// auto-fetch sweep and progress-session GC.
package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then on each interval tick until ctx ends.
// Task errors are logged under the loop's name and never stop the loop.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	log.Printf("[%s] loop started, interval=%s", name, interval)

	run := func() {
		if err := task(ctx); err != nil {
			log.Printf("[%s] %v", name, err)
		}
	}
	run()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] loop stopped", name)
			return
		case <-t.C:
			run()
		}
	}
}
