// Package notify delivers best-effort email alerts after workflow
// transitions. Delivery never blocks the caller and never fails a
// transition: messages go through a bounded queue consumed by a small pool
// of workers, and anything that cannot be queued or sent is logged and
// dropped.
package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sakshiot4/UrbanWatch-plus/internal/goroutine"
	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
)

const subjectPrefix = "[UrbanWatch+] "

// Message is a single outgoing alert.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender performs the actual delivery of one message.
type Sender interface {
	Send(m Message) error
}

// Notifier is the fire-and-forget notification dispatcher.
type Notifier struct {
	sender Sender
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a notifier with the given queue capacity and worker count.
func New(sender Sender, queueSize, workers int) *Notifier {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}

	n := &Notifier{
		sender: sender,
		queue:  make(chan Message, queueSize),
	}

	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		goroutine.SafeGo(n.work)
	}

	return n
}

// Notify enqueues an alert. Empty recipients are silently dropped. When the
// queue is full, or the notifier is already closed, the message is dropped
// with a log entry rather than blocking or panicking the caller.
func (n *Notifier) Notify(to, subject, body string) {
	if to == "" {
		return
	}

	m := Message{To: to, Subject: subjectPrefix + subject, Body: body}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"recipient": to,
				"subject":   subject,
			}).Warn("notify: notifier closed, dropping message")
		}
		return
	}

	select {
	case n.queue <- m:
	default:
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"recipient": to,
				"subject":   subject,
			}).Warn("notify: queue full, dropping message")
		}
	}
}

// Close stops accepting messages and waits for in-flight deliveries.
func (n *Notifier) Close(ctx context.Context) {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (n *Notifier) work() {
	defer n.wg.Done()

	for m := range n.queue {
		if err := n.sender.Send(m); err != nil {
			// Best effort only: failures are swallowed after logging.
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"recipient": m.To,
					"subject":   m.Subject,
					"error":     err.Error(),
				}).Warn("notify: delivery failed")
			}
		}
	}
}
