package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter uses precise timing with drift compensation: sleep
// for efficiency, busy-wait for the last couple of milliseconds for
// accuracy, and periodically correct for drift between the scheduled
// and actual block boundary.
type AdaptiveLimiter struct {
	period        time.Duration
	nextBlockTime time.Time
	blockCounter  int64
	log           *slog.Logger
}

func NewAdaptiveLimiter(blockSize, sampleRate int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		period:        BlockDuration(blockSize, sampleRate),
		nextBlockTime: time.Now(),
		log:           slog.Default().With("component", "timing"),
	}
}

func (a *AdaptiveLimiter) WaitForNextBlock() {
	now := time.Now()
	sleepTime := a.nextBlockTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextBlockTime) {
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextBlockTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextBlockTime = now
	}

	a.nextBlockTime = a.nextBlockTime.Add(a.period)
	a.blockCounter++

	if a.blockCounter%100 == 0 {
		drift := time.Now().Sub(a.nextBlockTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextBlockTime = a.nextBlockTime.Add(drift / 10)
			a.log.Debug("block timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextBlockTime = time.Now()
	a.blockCounter = 0
}
