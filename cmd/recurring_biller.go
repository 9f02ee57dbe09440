package main

import (
	"context"
	"log"
	"time"
)

const (
	recurringBillerTimeout = 1 * time.Minute
	recurringBillerBatch   = 100
)

type dueCharger interface {
	ChargeDueSubscriptions(ctx context.Context, limit int) (int, error)
}

// startRecurringBiller charges subscriptions whose period has ended, once at
// start and then every interval. A zero interval disables it.
func startRecurringBiller(ctx context.Context, charger dueCharger, interval time.Duration, infoLog, errorLog *log.Logger) {
	if charger == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runOnce := func() {
			runCtx, cancel := context.WithTimeout(ctx, recurringBillerTimeout)
			charged, err := charger.ChargeDueSubscriptions(runCtx, recurringBillerBatch)
			cancel()
			if err != nil && errorLog != nil {
				errorLog.Printf("recurring biller: %v", err)
			}
			if charged > 0 && infoLog != nil {
				infoLog.Printf("recurring biller: invoiced %d subscriptions", charged)
			}
		}

		runOnce()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
