package telegram

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChatQueue_OrderPerChat(t *testing.T) {
	q := newChatQueue()
	var mu sync.Mutex
	got := map[int64][]int{}

	for i := 0; i < 50; i++ {
		for _, chat := range []int64{1, 2, 3} {
			i, chat := i, chat
			q.push(chat, func() {
				if i%10 == 0 {
					time.Sleep(time.Millisecond)
				}
				mu.Lock()
				got[chat] = append(got[chat], i)
				mu.Unlock()
			})
		}
	}
	q.wait()

	for _, chat := range []int64{1, 2, 3} {
		assert.Len(t, got[chat], 50)
		assert.IsIncreasing(t, got[chat])
	}
	assert.Empty(t, q.pending)
}

func TestChatQueue_ChatsRunInParallel(t *testing.T) {
	q := newChatQueue()
	release := make(chan struct{})
	done := make(chan struct{})

	q.push(1, func() { <-release })
	q.push(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chat 2 was blocked by chat 1")
	}
	close(release)
	q.wait()
}
