package supabase

import (
	"sync"

	"zomatify/storefront-svc/internal/domain"
)

// subscriber delivers events to one listener in FIFO order. push never blocks.
type subscriber struct {
	listener func(domain.AuthEvent)

	mu    sync.Mutex
	queue []domain.AuthEvent
	wake  chan struct{}
	done  chan struct{}
}

func newSubscriber(listener func(domain.AuthEvent)) *subscriber {
	return &subscriber{
		listener: listener,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (s *subscriber) push(event domain.AuthEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			event := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			select {
			case <-s.done:
				return
			default:
			}
			s.listener(event)
		}
	}
}
