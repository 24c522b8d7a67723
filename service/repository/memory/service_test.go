package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/actflow/internal/clock"
	"github.com/viant/actflow/service/repository"
)

func TestService_UpdateCurrentNode(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	ctx := context.Background()
	service := New()

	_, err := service.GetByID(ctx, "order-flow")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-flow", "Create Order"))
	record, err := service.GetByID(ctx, "order-flow")
	assert.NoError(t, err)
	assert.Equal(t, "Create Order", record.CurrentNode)
	assert.Equal(t, base, record.UpdatedAt)

	now = base.Add(time.Minute)
	assert.NoError(t, service.UpdateCurrentNode(ctx, "order-flow", "Ship"))
	record, err = service.GetByID(ctx, "order-flow")
	assert.NoError(t, err)
	assert.Equal(t, "Ship", record.CurrentNode)
	assert.Equal(t, base.Add(time.Minute), record.UpdatedAt)
}

func TestService_FindByNamePattern(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	service := New()

	records := []*repository.Record{
		{ID: "1", Name: "order intake", UpdatedAt: base},
		{ID: "2", Name: "order shipping", UpdatedAt: base.Add(time.Hour)},
		{ID: "3", Name: "billing", UpdatedAt: base.Add(2 * time.Hour)},
	}
	for _, record := range records {
		assert.NoError(t, service.Save(ctx, record))
	}

	testCases := []struct {
		name    string
		pattern string
		since   time.Time
		wantIDs []string
	}{
		{name: "substring match", pattern: "order", wantIDs: []string{"1", "2"}},
		{name: "since filters older", pattern: "order", since: base.Add(time.Minute), wantIDs: []string{"2"}},
		{name: "no match", pattern: "refund", wantIDs: nil},
		{name: "empty pattern matches all", pattern: "", wantIDs: []string{"1", "2", "3"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matched, err := service.FindByNamePattern(ctx, tc.pattern, tc.since)
			assert.NoError(t, err)
			var ids []string
			for _, record := range matched {
				ids = append(ids, record.ID)
			}
			assert.ElementsMatch(t, tc.wantIDs, ids)
		})
	}
}

func TestService_GetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	service := New()
	assert.NoError(t, service.UpdateCurrentNode(ctx, "wf", "A"))

	record, err := service.GetByID(ctx, "wf")
	assert.NoError(t, err)
	record.CurrentNode = "mutated"

	fresh, err := service.GetByID(ctx, "wf")
	assert.NoError(t, err)
	assert.Equal(t, "A", fresh.CurrentNode)
}
