package modlog

import (
	"log"
	"sync"
	"time"
)

type task struct {
	name string
	fn   func()
}

// TaskQueue executes submitted tasks one at a time, in submission order, on a
// single dedicated worker goroutine. All correlation-state access and record
// emission goes through one queue, which is what makes the watermark cache
// safe without locks.
type TaskQueue struct {
	tasks chan task

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewTaskQueue starts the worker goroutine and returns the queue.
func NewTaskQueue(buffer int) *TaskQueue {
	if buffer <= 0 {
		buffer = 256
	}
	q := &TaskQueue{
		tasks: make(chan task, buffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *TaskQueue) run() {
	defer close(q.done)
	for {
		select {
		case t := <-q.tasks:
			q.execute(t)
		case <-q.stop:
			// Drain whatever was already submitted, then exit.
			for {
				select {
				case t := <-q.tasks:
					q.execute(t)
				default:
					return
				}
			}
		}
	}
}

// execute runs one task, isolating panics so a failing unit of work never
// stops the worker or starves later submissions.
func (q *TaskQueue) execute(t task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("modlog: task %q panicked: %v", t.name, r)
		}
	}()
	t.fn()
}

// Submit enqueues fn for execution after all previously submitted tasks.
// It never blocks the caller for long: if the queue is saturated the task is
// dropped with a log line, since a lost log record is preferable to stalling
// the gateway dispatch goroutines.
func (q *TaskQueue) Submit(name string, fn func()) {
	select {
	case <-q.stop:
		log.Printf("modlog: queue stopped, dropping task %q", name)
		return
	default:
	}
	select {
	case q.tasks <- task{name: name, fn: fn}:
	default:
		log.Printf("modlog: queue full, dropping task %q", name)
	}
}

// SubmitAfter schedules fn to be enqueued after the given delay and returns
// immediately. The delay models audit-log propagation lag, not blocking; the
// task enters the queue (and gains its ordering position) only once the timer
// fires.
func (q *TaskQueue) SubmitAfter(delay time.Duration, name string, fn func()) {
	time.AfterFunc(delay, func() {
		q.Submit(name, fn)
	})
}

// Stop signals the worker, drains the tasks already submitted and waits for
// the worker to exit. Delayed tasks whose timers have not fired are dropped.
func (q *TaskQueue) Stop() {
	q.stopOnce.Do(func() {
		close(q.stop)
	})
	<-q.done
}
