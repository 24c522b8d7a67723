package executor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/actflow/extension"
	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/model/types"
	"github.com/viant/actflow/runtime/instance"
)

func TestService_ExecuteSubstitutesVariables(t *testing.T) {
	actions := extension.NewActions()
	instances := instance.NewManager()

	var seen map[string]string
	_ = actions.RegisterHandler(types.NewHandler("printer.print", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		seen = params
		return map[string]string{"lastMessage": params["message"]}, nil
	}))

	instances.SetVariable("wf", "user", "Alice")
	service := New(actions, instances)

	result := service.Execute(context.Background(), "wf", &graph.Action{
		Name:   "printer.print",
		Params: map[string]string{"message": "Hello, {{user}}!", "missing": "{{nope}}"},
	})

	assert.NoError(t, result.Err)
	assert.False(t, result.Skipped)
	assert.Equal(t, "Hello, Alice!", seen["message"])
	assert.Equal(t, "{{nope}}", seen["missing"], "unresolved placeholder stays literal")
	assert.Equal(t, "Hello, Alice!", instances.Variables("wf")["lastMessage"])
}

func TestService_ExecuteMissingHandlerSkips(t *testing.T) {
	service := New(extension.NewActions(), instance.NewManager())
	result := service.Execute(context.Background(), "wf", &graph.Action{Name: "unknown.action"})
	assert.True(t, result.Skipped)
	assert.NoError(t, result.Err)
}

func TestService_ExecuteNilActionSkips(t *testing.T) {
	service := New(extension.NewActions(), instance.NewManager())
	result := service.Execute(context.Background(), "wf", nil)
	assert.True(t, result.Skipped)
}

func TestService_ExecuteCancellation(t *testing.T) {
	actions := extension.NewActions()
	instances := instance.NewManager()
	_ = actions.RegisterHandler(types.NewHandler("slow", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		select {
		case <-ctx.Done():
			return map[string]string{"late": "update"}, ctx.Err()
		case <-time.After(5 * time.Second):
			return map[string]string{"done": "true"}, nil
		}
	}))

	service := New(actions, instances)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result := service.Execute(ctx, "wf", &graph.Action{Name: "slow"})
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	assert.Empty(t, instances.Variables("wf"), "cancelled execution must not merge variables")
}

func TestService_ExecuteContainsPanic(t *testing.T) {
	actions := extension.NewActions()
	instances := instance.NewManager()
	_ = actions.RegisterHandler(types.NewHandler("faulty", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		panic("boom")
	}))

	service := New(actions, instances)
	result := service.Execute(context.Background(), "wf", &graph.Action{Name: "faulty"})
	assert.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "boom")
}

func TestService_ExecuteHandlerError(t *testing.T) {
	actions := extension.NewActions()
	instances := instance.NewManager()
	fault := errors.New("downstream unavailable")
	_ = actions.RegisterHandler(types.NewHandler("flaky", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		return map[string]string{"ignored": "value"}, fault
	}))

	service := New(actions, instances)
	result := service.Execute(context.Background(), "wf", &graph.Action{Name: "flaky"})
	assert.ErrorIs(t, result.Err, fault)
	assert.Empty(t, instances.Variables("wf"), "failed execution must not merge variables")
}

func TestService_ScopedMode(t *testing.T) {
	var created atomic.Int32
	factory := func() types.Handler {
		created.Add(1)
		return types.NewHandler("counted", func(ctx context.Context, params map[string]string) (map[string]string, error) {
			return nil, nil
		})
	}

	testCases := []struct {
		name        string
		scoped      bool
		executions  int
		wantCreated int32
	}{
		{name: "scoped creates per execution", scoped: true, executions: 3, wantCreated: 3},
		{name: "unscoped caches first handler", scoped: false, executions: 3, wantCreated: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created.Store(0)
			actions := extension.NewActions()
			_ = actions.Register("counted", factory)
			service := New(actions, instance.NewManager(), WithScoped(tc.scoped))
			for i := 0; i < tc.executions; i++ {
				result := service.Execute(context.Background(), "wf", &graph.Action{Name: "counted"})
				assert.NoError(t, result.Err)
			}
			assert.Equal(t, tc.wantCreated, created.Load())
		})
	}
}

func TestService_WorkflowIsolation(t *testing.T) {
	actions := extension.NewActions()
	instances := instance.NewManager()
	_ = actions.RegisterHandler(types.NewHandler("tag", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		return map[string]string{"tag": params["value"]}, nil
	}))

	service := New(actions, instances)
	service.Execute(context.Background(), "first", &graph.Action{Name: "tag", Params: map[string]string{"value": "a"}})
	service.Execute(context.Background(), "second", &graph.Action{Name: "tag", Params: map[string]string{"value": "b"}})

	assert.Equal(t, "a", instances.Variables("first")["tag"])
	assert.Equal(t, "b", instances.Variables("second")["tag"])
}

func TestService_ListenerObservesResult(t *testing.T) {
	actions := extension.NewActions()
	_ = actions.RegisterHandler(types.NewHandler("noop", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		return nil, nil
	}))

	var observed []string
	service := New(actions, instance.NewManager(), WithListener(func(workflowID string, action *graph.Action, result Result) {
		observed = append(observed, workflowID+"/"+action.Name)
	}))
	service.Execute(context.Background(), "wf", &graph.Action{Name: "noop"})
	assert.Equal(t, []string{"wf/noop"}, observed)
}
