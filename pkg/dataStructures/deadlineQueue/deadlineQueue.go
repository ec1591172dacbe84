package deadlinequeue

import (
	"container/heap"

	"github.com/nm-morais/go-sched/pkg/timer"
)

// Item is one pending countdown: the timer it belongs to, the registry
// generation it was scheduled under, and its absolute deadline in unix nanos.
// A popped item whose generation no longer matches the registry is stale.
type Item struct {
	ID         timer.ID
	Generation uint64
	Deadline   int64
	index      int
}

// DeadlineQueue is a min-heap of pending countdowns ordered by deadline. It
// is not safe for concurrent use; the dispatch loop is its only caller.
type DeadlineQueue struct {
	items itemHeap
}

func New() *DeadlineQueue {
	return &DeadlineQueue{}
}

func (q *DeadlineQueue) Len() int {
	return q.items.Len()
}

func (q *DeadlineQueue) Push(item *Item) {
	heap.Push(&q.items, item)
}

// Peek returns the item with the earliest deadline without removing it, or
// nil when the queue is empty.
func (q *DeadlineQueue) Peek() *Item {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop removes and returns the item with the earliest deadline, or nil when
// the queue is empty.
func (q *DeadlineQueue) Pop() *Item {
	if len(q.items) == 0 {
		return nil
	}
	return heap.Pop(&q.items).(*Item)
}

// RemoveAll drops every pending countdown scheduled for id.
func (q *DeadlineQueue) RemoveAll(id timer.ID) {
	kept := q.items[:0]
	for _, item := range q.items {
		if item.ID == id {
			continue
		}
		kept = append(kept, item)
	}
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = nil // avoid memory leak
	}
	q.items = kept
	heap.Init(&q.items)
}

// Clear drops every pending countdown.
func (q *DeadlineQueue) Clear() {
	q.items = nil
}

type itemHeap []*Item

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	return h[i].Deadline < h[j].Deadline
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap) Push(x interface{}) {
	item := x.(*Item)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*h = old[0 : n-1]
	return item
}
