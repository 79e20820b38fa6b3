package eventloop

import (
	"container/heap"
	"time"
)

type timer struct {
	when  time.Time
	seq   uint64
	fn    func()
	index int
}

// timerHeap orders timers by deadline, then by creation order.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// popDue removes and returns every timer due at now, in order.
func (h *timerHeap) popDue(now time.Time) []*timer {
	var due []*timer
	for h.Len() > 0 && !(*h)[0].when.After(now) {
		due = append(due, heap.Pop(h).(*timer))
	}
	return due
}
