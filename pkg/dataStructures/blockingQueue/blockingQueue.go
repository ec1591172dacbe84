package blockingqueue

import (
	"errors"
	"sync"
)

var ErrCapacity = errors.New("ERROR_CAPACITY: attempt to create queue with invalid capacity")
var ErrClosed = errors.New("ERROR_CLOSED: queue is closed")

// BlockingQueue is a bounded multi-producer, multi-consumer FIFO queue backed
// by a circular array. Put blocks while the queue is full and Get blocks
// while it is empty; Close wakes every waiter, after which Get drains the
// remaining items before reporting ErrClosed.
type BlockingQueue struct {
	lock     sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	store      []interface{}
	readIndex  int
	writeIndex int
	count      int
	closed     bool
}

// New creates a BlockingQueue with the given fixed capacity.
func New(capacity int) (*BlockingQueue, error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	q := &BlockingQueue{
		store: make([]interface{}, capacity),
	}
	q.notEmpty = sync.NewCond(&q.lock)
	q.notFull = sync.NewCond(&q.lock)
	return q, nil
}

// Put appends an item to the tail of the queue, blocking the calling
// goroutine while the queue is full.
func (q *BlockingQueue) Put(item interface{}) error {
	if item == nil {
		panic("nil item")
	}
	q.lock.Lock()
	defer q.lock.Unlock()

	for q.count == len(q.store) && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}
	q.push(item)
	return nil
}

// Offer appends an item without blocking, reporting whether there was room.
func (q *BlockingQueue) Offer(item interface{}) bool {
	if item == nil {
		panic("nil item")
	}
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed || q.count == len(q.store) {
		return false
	}
	q.push(item)
	return true
}

// Get takes an item from the head of the queue, blocking the calling
// goroutine while the queue is empty. Once the queue is closed and drained,
// it returns ErrClosed.
func (q *BlockingQueue) Get() (interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()

	for q.count == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.count == 0 {
		return nil, ErrClosed
	}
	return q.pop(), nil
}

// Close wakes every blocked producer and consumer. Pending items remain
// retrievable through Get.
func (q *BlockingQueue) Close() {
	q.lock.Lock()
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	q.lock.Unlock()
}

// Clear removes every pending item.
func (q *BlockingQueue) Clear() {
	q.lock.Lock()
	next := q.readIndex
	for i := 0; i < q.count; i++ {
		q.store[next] = nil
		next = q.inc(next)
	}
	q.count = 0
	q.readIndex = 0
	q.writeIndex = 0
	q.notFull.Broadcast()
	q.lock.Unlock()
}

func (q *BlockingQueue) Size() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.count
}

func (q *BlockingQueue) Capacity() int {
	return len(q.store)
}

// push and pop assume q.lock is held.

func (q *BlockingQueue) push(item interface{}) {
	q.store[q.writeIndex] = item
	q.writeIndex = q.inc(q.writeIndex)
	q.count++
	q.notEmpty.Signal()
}

func (q *BlockingQueue) pop() interface{} {
	item := q.store[q.readIndex]
	q.store[q.readIndex] = nil
	q.readIndex = q.inc(q.readIndex)
	q.count--
	q.notFull.Signal()
	return item
}

// inc circulates an index over the backing array.
func (q *BlockingQueue) inc(idx int) int {
	if idx+1 == len(q.store) {
		return 0
	}
	return idx + 1
}
