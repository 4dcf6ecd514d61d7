// Package background runs fire-and-forget tasks on tracked goroutines so
// they can be drained on shutdown instead of being killed mid-write.
package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

type Background struct {
	log logrus.FieldLogger
	wg  sync.WaitGroup
}

func New(log logrus.FieldLogger) *Background {
	return &Background{log: log}
}

// Run executes fn on its own goroutine. Panics are recovered and logged;
// errors are logged with the task name. Run never blocks the caller.
func (b *Background) Run(name string, fn func() error) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		defer func() {
			if rec := recover(); rec != nil {
				b.log.WithFields(logrus.Fields{
					"task":    name,
					"message": fmt.Sprintf("%v", rec),
					"trace":   string(debug.Stack()),
				}).Error("PANIC")
			}
		}()

		if err := fn(); err != nil {
			b.log.WithFields(logrus.Fields{
				"task":    name,
				"message": err,
			}).Warn("background task failed")
		}
	}()
}

// Shutdown waits for all running tasks to finish or for ctx to expire.
func (b *Background) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
