package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTickTimeout = time.Minute

// TrendingWorker re-rolls the trending topic table on a cron schedule.
type TrendingWorker struct {
	trending *TrendingService
	spec     string
	cron     *cron.Cron
}

// NewTrendingWorker creates a worker driven by the given cron spec
// (standard 5-field syntax).
func NewTrendingWorker(trending *TrendingService, spec string) *TrendingWorker {
	return &TrendingWorker{
		trending: trending,
		spec:     spec,
		// A refresh that outlasts the schedule must not overlap the next.
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the refresh job and begins the schedule. ctx bounds
// each individual refresh; the schedule itself runs until Stop.
func (w *TrendingWorker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.spec, func() { w.tick(ctx) }); err != nil {
		return fmt.Errorf("add trending refresh job: %w", err)
	}
	w.cron.Start()
	log.Printf("trending-worker: starting (schedule=%q)", w.spec)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (w *TrendingWorker) Stop() {
	<-w.cron.Stop().Done()
	log.Println("trending-worker: stopped")
}

func (w *TrendingWorker) tick(ctx context.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, refreshTickTimeout)
	defer cancel()

	n, err := w.trending.RefreshAll(ctx, nil)
	if err != nil {
		log.Printf("trending-worker: refresh error: %v", err)
		return
	}
	log.Printf("trending-worker: tick complete, %d topics refreshed (%s)",
		n, time.Since(start).Round(time.Millisecond))
}
