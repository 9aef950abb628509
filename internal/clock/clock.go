package clock

import "time"

// Clock abstracts time so that the sweeper, payout batcher and PIN grants
// can be tested with a controllable clock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
