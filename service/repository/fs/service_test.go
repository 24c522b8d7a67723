package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/actflow/service/repository"
)

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	assert.NoError(t, err)

	_, err = service.GetByID(ctx, "order-flow")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-flow", "Create Order"))
	record, err := service.GetByID(ctx, "order-flow")
	assert.NoError(t, err)
	assert.Equal(t, "order-flow", record.ID)
	assert.Equal(t, "order-flow", record.Name)
	assert.Equal(t, "Create Order", record.CurrentNode)

	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-flow", "Ship"))
	record, err = service.GetByID(ctx, "order-flow")
	assert.NoError(t, err)
	assert.Equal(t, "Ship", record.CurrentNode)
}

func TestService_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	service, err := New(baseURL)
	assert.NoError(t, err)
	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-flow", "Ship"))

	reopened, err := New(baseURL)
	assert.NoError(t, err)
	record, err := reopened.GetByID(ctx, "order-flow")
	assert.NoError(t, err)
	assert.Equal(t, "Ship", record.CurrentNode)
}

func TestService_FindByNamePattern(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-intake", "Receive"))
	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-shipping", "Ship"))
	assert.NoError(t, service.UpdateCurrentNode(ctx, "billing", "Invoice"))

	testCases := []struct {
		name    string
		pattern string
		since   time.Time
		want    int
	}{
		{name: "substring match", pattern: "order", want: 2},
		{name: "all on empty pattern", pattern: "", want: 3},
		{name: "no match", pattern: "refund", want: 0},
		{name: "since in the future", pattern: "order", since: time.Now().Add(time.Hour), want: 0},
	}
	for _, testCase := range testCases {
		matched, err := service.FindByNamePattern(ctx, testCase.pattern, testCase.since)
		assert.NoError(t, err, testCase.name)
		assert.Equal(t, testCase.want, len(matched), testCase.name)
	}
}
