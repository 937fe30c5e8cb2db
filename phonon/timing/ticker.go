package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent block timing.
// Less accurate than AdaptiveLimiter but simpler and good enough when
// the backend's own buffering already absorbs small jitter (e.g. an
// OS audio callback pulling blocks on its own schedule).
type TickerLimiter struct {
	ticker *time.Ticker
	ch     <-chan time.Time
	period time.Duration
}

func NewTickerLimiter(blockSize, sampleRate int) *TickerLimiter {
	period := BlockDuration(blockSize, sampleRate)
	ticker := time.NewTicker(period)
	return &TickerLimiter{ticker: ticker, ch: ticker.C, period: period}
}

func (t *TickerLimiter) WaitForNextBlock() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
