package app

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixhub/pixhub/internal/domain"
)

func TestReviewExpiryPublishesPerExpiredRecord(t *testing.T) {
	repo := newFakeRepository()
	repo.expired = []domain.Transaction{
		{ID: uuid.New(), Status: domain.StatusFailed, Value: decimal.RequireFromString("2500")},
		{ID: uuid.New(), Status: domain.StatusFailed, Value: decimal.RequireFromString("900")},
	}
	publisher := &recordingPublisher{}

	NewReviewExpiryJob(repo, publisher, 24*time.Hour).Run()

	if len(publisher.routingKeys) != 2 {
		t.Fatalf("expected one event per expired record, got %v", publisher.routingKeys)
	}
	for _, key := range publisher.routingKeys {
		if key != domain.EventReviewExpired {
			t.Errorf("expected %s, got %s", domain.EventReviewExpired, key)
		}
	}
}

func TestReviewExpiryNoRecordsNoEvents(t *testing.T) {
	repo := newFakeRepository()
	publisher := &recordingPublisher{}

	NewReviewExpiryJob(repo, publisher, 24*time.Hour).Run()

	if len(publisher.routingKeys) != 0 {
		t.Errorf("expected no events, got %v", publisher.routingKeys)
	}
}

func TestReviewExpirySchedulerRejectsBadSchedule(t *testing.T) {
	job := NewReviewExpiryJob(newFakeRepository(), nil, time.Hour)
	if _, err := NewReviewExpiryScheduler(job, "not a schedule"); err == nil {
		t.Fatal("expected an invalid schedule to be rejected")
	}
	if _, err := NewReviewExpiryScheduler(job, "@every 10m"); err != nil {
		t.Fatalf("expected a valid schedule to be accepted, got %v", err)
	}
}
