package notify

import (
	"context"
	"sync/atomic"
)

// ChanSink delivers notifications to an in-process consumer. Delivery never
// blocks; notifications that do not fit the buffer are dropped and counted.
type ChanSink struct {
	out     chan Notification
	dropped uint64
}

func NewChanSink(bufferSize int) *ChanSink {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &ChanSink{out: make(chan Notification, bufferSize)}
}

func (s *ChanSink) Name() string { return "in_app" }

func (s *ChanSink) C() <-chan Notification {
	return s.out
}

func (s *ChanSink) Show(_ context.Context, n Notification) error {
	select {
	case s.out <- n:
		return nil
	default:
		atomic.AddUint64(&s.dropped, 1)
		return ErrSinkFull
	}
}

func (s *ChanSink) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}
