package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type dispatchJob struct {
	recipient Recipient
	n         Notification
	channels  []Channel
}

// Pool runs dispatches asynchronously on a bounded worker pool so that mail
// sends and multi-recipient fan-out never serialize the request path. The
// domain mutation has already committed by the time a job is enqueued; a
// dropped job loses only a notification, never pipeline state.
type Pool struct {
	dispatcher *Dispatcher
	jobs       chan dispatchJob
	log        *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewPool(dispatcher *Dispatcher, workers int, queueSize int, log *logrus.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		dispatcher: dispatcher,
		jobs:       make(chan dispatchJob, queueSize),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobs {
		p.dispatcher.Dispatch(p.ctx, job.recipient, job.n, job.channels...)
	}
}

// Enqueue schedules a dispatch. When the queue is full the job runs on its
// own goroutine instead of blocking the caller's request.
func (p *Pool) Enqueue(recipient Recipient, n Notification, channels ...Channel) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.WithField("type", n.Type()).Warn("dispatch pool closed, dropping notification")
		return
	}

	job := dispatchJob{recipient: recipient, n: n, channels: channels}

	select {
	case p.jobs <- job:
		p.mu.Unlock()
	default:
		p.mu.Unlock()
		p.log.WithField("type", n.Type()).Warn("dispatch queue full, running inline goroutine")
		go p.dispatcher.Dispatch(p.ctx, job.recipient, job.n, job.channels...)
	}
}

// Close drains queued jobs and waits for in-flight dispatches. In-flight
// mail retries are bounded by their attempt count; there is no cooperative
// cancellation of a send already on the wire.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}
