package telegram

import "sync"

// chatQueue runs the jobs of one chat in arrival order while different
// chats proceed in parallel.
type chatQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func newChatQueue() *chatQueue {
	return &chatQueue{pending: map[int64][]func(){}}
}

func (q *chatQueue) push(chatID int64, job func()) {
	q.mu.Lock()
	jobs, draining := q.pending[chatID]
	q.pending[chatID] = append(jobs, job)
	q.mu.Unlock()

	if !draining {
		q.wg.Add(1)
		go q.drain(chatID)
	}
}

// drain owns chatID until its queue is empty.
func (q *chatQueue) drain(chatID int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		jobs := q.pending[chatID]
		if len(jobs) == 0 {
			delete(q.pending, chatID)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		q.pending[chatID] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// wait blocks until every queued job has run.
func (q *chatQueue) wait() {
	q.wg.Wait()
}
