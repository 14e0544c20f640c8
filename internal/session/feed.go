package session

import (
	"sync"

	"github.com/vovakirdan/myg-arcade/internal/interp"
)

// Feed buffers snapshots between a session's ticker and a host that reads
// at its own pace, such as a Bubble Tea program. Push never blocks: when the
// buffer is full the oldest snapshot is dropped.
type Feed struct {
	snaps    chan interp.Snapshot
	done     chan struct{}
	doneOnce sync.Once
}

// NewFeed creates a feed holding up to size snapshots.
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 8
	}
	return &Feed{
		snaps: make(chan interp.Snapshot, size),
		done:  make(chan struct{}),
	}
}

// Push queues snap. It is suitable as a Start callback.
func (f *Feed) Push(snap interp.Snapshot) {
	select {
	case <-f.done:
		return
	default:
	}

	select {
	case f.snaps <- snap:
	default:
		select {
		case <-f.snaps:
		default:
		}
		select {
		case f.snaps <- snap:
		default:
		}
	}
}

// C returns the channel snapshots are read from.
func (f *Feed) C() <-chan interp.Snapshot {
	return f.snaps
}

// Drain discards every queued snapshot, for hosts that reload the program
// and do not want frames of the previous one.
func (f *Feed) Drain() {
	for {
		select {
		case <-f.snaps:
		default:
			return
		}
	}
}

// Done returns a channel closed by Close.
func (f *Feed) Done() <-chan struct{} {
	return f.done
}

// Close stops accepting snapshots. Safe to call multiple times.
func (f *Feed) Close() {
	f.doneOnce.Do(func() {
		close(f.done)
	})
}
