// Package pacer holds the host to a fixed frame rate.
//
// A frame that finishes early sleeps until its scheduled end. A frame that
// overruns starts the next one immediately and the schedule is re-based on
// the current time, so skipped frames are never caught up.
package pacer

import (
	"fmt"
	"time"
)

const DefaultFPS = 60

type Pacer struct {
	frame time.Duration
	start time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func New(fps int) (*Pacer, error) {
	return newPacer(fps, time.Now, time.Sleep)
}

func newPacer(fps int, now func() time.Time, sleep func(time.Duration)) (*Pacer, error) {
	if fps < 1 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}

	return &Pacer{
		frame: time.Second / time.Duration(fps),
		start: now(),
		now:   now,
		sleep: sleep,
	}, nil
}

// Frame is the target duration of one frame.
func (p *Pacer) Frame() time.Duration {
	return p.frame
}

// Wait blocks until the current frame is over and starts the next one. It
// returns the time spent sleeping.
func (p *Pacer) Wait() time.Duration {
	deadline := p.start.Add(p.frame)
	now := p.now()

	if now.Before(deadline) {
		d := deadline.Sub(now)
		p.sleep(d)
		p.start = deadline
		return d
	}

	p.start = now
	return 0
}
