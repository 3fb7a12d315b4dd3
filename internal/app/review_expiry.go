/**
 * @description
 * A cron-driven job that fails PENDING_REVIEW transactions no analyst decided
 * inside the configured TTL. Each expired record is published as a
 * pix.review.expired event so downstream consumers see the terminal state.
 */

package app

import (
	"context"
	"log"
	"time"

	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
	"github.com/pixhub/pixhub/pkg/rabbitmq"
	"github.com/robfig/cron/v3"
)

// ReviewExpiryJob fails stale pending reviews on a schedule.
type ReviewExpiryJob struct {
	repo     store.Repository
	producer rabbitmq.Publisher
	ttl      time.Duration
}

// NewReviewExpiryJob creates the job. ttl is measured from transaction creation.
func NewReviewExpiryJob(repo store.Repository, producer rabbitmq.Publisher, ttl time.Duration) *ReviewExpiryJob {
	return &ReviewExpiryJob{repo: repo, producer: producer, ttl: ttl}
}

// Run executes one expiry sweep. Satisfies cron.Job.
func (j *ReviewExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.ttl)
	expired, err := j.repo.ExpireStaleReviews(ctx, cutoff, CodeReviewExpired, FraudDescription(CodeReviewExpired))
	if err != nil {
		log.Printf("level=error component=review_expiry msg=\"expiry sweep failed\" err=%v", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	log.Printf("level=info component=review_expiry msg=\"expired stale reviews\" count=%d cutoff=%s", len(expired), cutoff.Format(time.RFC3339))
	if j.producer == nil {
		return
	}
	for i := range expired {
		tx := &expired[i]
		event := domain.TransactionEvent{
			TransactionID: tx.ID,
			Status:        tx.Status,
			Value:         tx.Value,
			SenderKey:     tx.Sender.Value,
			ReceiverKey:   tx.Receiver.Value,
			FraudCode:     tx.FraudCode,
			Timestamp:     time.Now().UTC(),
		}
		if err := j.producer.Publish(ctx, rabbitmq.EventsExchange, domain.EventReviewExpired, event); err != nil {
			log.Printf("level=warn component=review_expiry msg=\"event publish failed\" transaction_id=%s err=%v", tx.ID, err)
		}
	}
}

// NewReviewExpiryScheduler wires the job onto a cron scheduler. Start and Stop
// are the caller's responsibility.
func NewReviewExpiryScheduler(job *ReviewExpiryJob, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddJob(schedule, job); err != nil {
		return nil, err
	}
	return c, nil
}
