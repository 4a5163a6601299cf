package transport

import (
	"context"
	"sync"
)

func newConnectionQueue() *connectionQueue {
	return &connectionQueue{
		items:  make([]*Connection, 0, 1<<4),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// connectionQueue is an unbounded FIFO of accepted connections.
// Producers are native callbacks, possibly concurrent; the consumer is the
// accept loop. Completion is structural: no sentinel item is ever stored.
type connectionQueue struct {
	mu        sync.Mutex
	items     []*Connection
	next      uint64
	completed bool

	notify chan struct{}
	done   chan struct{}
}

// Enqueue appends conn and stamps its sequence number. It never blocks.
// It reports false, and stores nothing, once the queue is completed.
func (q *connectionQueue) Enqueue(conn *Connection) bool {
	if conn == nil {
		return false
	}

	q.mu.Lock()
	if q.completed {
		q.mu.Unlock()
		return false
	}
	q.next++
	conn.sequence = q.next
	q.items = append(q.items, conn)
	q.mu.Unlock()

	// Send a notification (non-blocking)
	select {
	case q.notify <- struct{}{}:
	default:
	}

	return true
}

// Dequeue removes the oldest connection, waiting until one is available.
// It returns errQueueCompleted once the queue is completed and empty, and
// ctx.Err() without consuming anything when ctx is done.
func (q *connectionQueue) Dequeue(ctx context.Context) (*Connection, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			conn := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return conn, nil
		}
		completed := q.completed
		q.mu.Unlock()

		if completed {
			return nil, errQueueCompleted
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.notify:
		case <-q.done:
		}
	}
}

// Complete marks that no further connections will arrive.
func (q *connectionQueue) Complete() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.completed {
		return
	}
	q.completed = true
	close(q.done)
}

// Drain removes and returns every queued connection.
func (q *connectionQueue) Drain() []*Connection {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

func (q *connectionQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}
