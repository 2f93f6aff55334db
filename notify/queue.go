package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Queue hands emails to a fixed set of workers. Enqueue never blocks: when the buffer
// is full the email is dropped and logged.
type Queue struct {
	mailer Mailer
	ch     chan Email
	wg     sync.WaitGroup
	once   sync.Once
}

// NewQueue returns a queue buffering up to size emails for mailer
func NewQueue(mailer Mailer, size int) *Queue {
	return &Queue{
		mailer: mailer,
		ch:     make(chan Email, size),
	}
}

// Start launches the delivery workers
func (q *Queue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for e := range q.ch {
		if err := q.mailer.Send(e); err != nil {
			zap.S().Errorw("failed to send email",
				"to", e.ToEmail,
				"subject", e.Subject,
				"error", err)
		}
	}
}

// Enqueue queues e for delivery and reports whether it was accepted
func (q *Queue) Enqueue(e Email) bool {
	select {
	case q.ch <- e:
		return true
	default:
		zap.S().Warnw("email queue full, dropping email", "to", e.ToEmail, "subject", e.Subject)
		return false
	}
}

// Close stops accepting email and waits for queued email to be delivered
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.ch)
	})
	q.wg.Wait()
}
