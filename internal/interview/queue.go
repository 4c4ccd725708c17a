package interview

import "time"

// stagingQueue is the ordered, concurrency-safe buffer of prepared questions.
// FIFO by insertion: background workers finish in arbitrary order, so staging
// order may differ from ordinal order. The session matches popped items to the
// pending ordinal (see takeStagedLocked).
type stagingQueue struct {
	items chan PreparedQuestion
}

func newStagingQueue(capacity int) *stagingQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &stagingQueue{items: make(chan PreparedQuestion, capacity)}
}

// push stages a prepared question. The queue is sized to the interview length,
// so a producer only drops work if the session staged more than it can deliver.
func (q *stagingQueue) push(item PreparedQuestion) bool {
	select {
	case q.items <- item:
		return true
	default:
		return false
	}
}

// tryPop removes the oldest staged question without blocking.
func (q *stagingQueue) tryPop() (PreparedQuestion, bool) {
	select {
	case item := <-q.items:
		return item, true
	default:
		return PreparedQuestion{}, false
	}
}

// pop removes the oldest staged question, waiting up to timeout.
func (q *stagingQueue) pop(timeout time.Duration) (PreparedQuestion, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case item := <-q.items:
		return item, true
	case <-timer.C:
		return PreparedQuestion{}, false
	}
}
