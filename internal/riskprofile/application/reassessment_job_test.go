package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finwell/riskplatform/internal/riskprofile/domain"
)

func TestReassessmentJobRun(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryProfileRepository()
	pub := &capturingPublisher{}

	seedProfile(t, repo, "CUST-FRESH", "100", time.Now().Add(-time.Hour))
	seedProfile(t, repo, "CUST-STALE", "900", time.Now().Add(-48*time.Hour))

	job := NewReassessmentJob(repo, pub, testLogger())
	job.run(ctx)

	assert.Equal(t, []string{domain.ReassessmentDueEventType}, pub.topics)
}

func TestReassessmentJobRunEmpty(t *testing.T) {
	repo := newMemoryProfileRepository()
	pub := &capturingPublisher{}

	job := NewReassessmentJob(repo, pub, testLogger())
	job.run(context.Background())

	assert.Empty(t, pub.topics)
}
