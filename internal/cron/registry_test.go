package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryStoresJobsInOrder(t *testing.T) {
	jobA := &stubJob{name: "a"}
	jobB := &stubJob{name: "b"}
	registry := NewRegistry(jobA, nil)
	registry.Register(jobB)
	registry.Register(nil)

	jobs := registry.Jobs()
	assert.Equal(t, []Job{jobA, jobB}, jobs)
	assert.Equal(t, []string{"a", "b"}, registry.Names())

	jobs[0] = nil
	assert.NotNil(t, registry.Jobs()[0])
}
