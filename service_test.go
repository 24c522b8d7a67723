package actflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/actflow/model/types"
)

const orderDocument = `@startuml
start
:Create Order;
note right : {"action":"record","params":{"step":"created for {{customer}}"}}
if (express?) then (yes)
  :Courier;
else (no)
  :Postal;
endif
:Notify;
stop
@enduml`

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()

	var steps []string
	srv := New(WithHandlers(types.NewHandler("record", func(ctx context.Context, params map[string]string) (map[string]string, error) {
		steps = append(steps, params["step"])
		return map[string]string{"lastStep": params["step"]}, nil
	})))
	rt := srv.Runtime()
	rt.SetVariable("order-1", "customer", "Alice")

	definition, err := rt.Import(ctx, orderDocument, "order-1", "order flow")
	assert.NoError(t, err)
	assert.NotNil(t, definition)
	assert.Equal(t, []string{"created for Alice"}, steps)

	state, err := rt.State(ctx, "order-1")
	assert.NoError(t, err)
	assert.True(t, state.IsChoice)
	assert.Equal(t, 2, len(state.Choices))
	assert.Equal(t, "Courier", state.Choices[0].Target)

	assert.NoError(t, rt.AdvanceByChoice(ctx, "order-1", "Postal"))
	state, err = rt.State(ctx, "order-1")
	assert.NoError(t, err)
	assert.Equal(t, "Notify", state.NodeID)
	assert.True(t, state.Completed)

	records, err := rt.Records(ctx, "order", time.Time{})
	assert.NoError(t, err)
	if assert.Equal(t, 1, len(records)) {
		assert.Equal(t, "Notify", records[0].CurrentNode)
	}
}

func TestRuntime_LoadAndImport(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	location := "flow.puml"
	document := "@startuml\n:Single Step;\n@enduml\n"
	assert.NoError(t, os.WriteFile(filepath.Join(baseURL, location), []byte(document), 0644))

	srv := New(WithMetaBaseURL(baseURL))
	rt := srv.Runtime()

	_, err := rt.LoadAndImport(ctx, location, "wf", "single")
	assert.NoError(t, err)
	state, err := rt.State(ctx, "wf")
	assert.NoError(t, err)
	assert.Equal(t, "Single Step", state.NodeID)
	assert.True(t, state.Completed)

	// upsert replaces the cached document; reimport picks up
	rt.UpsertDefinition(location, "@startuml\n:Another Step;\n@enduml\n")
	_, err = rt.LoadAndImport(ctx, location, "wf", "single")
	assert.NoError(t, err)
	state, err = rt.State(ctx, "wf")
	assert.NoError(t, err)
	assert.Equal(t, "Another Step", state.NodeID)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig()},
		{name: "fs without baseURL", config: &Config{Repository: RepositoryConfig{Kind: "fs"}}, wantErr: true},
		{name: "fs with baseURL", config: &Config{Repository: RepositoryConfig{Kind: "fs", BaseURL: "/tmp/records"}}},
		{name: "unknown kind", config: &Config{Repository: RepositoryConfig{Kind: "redis"}}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "executor:\n  scoped: true\nrepository:\n  kind: memory\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.True(t, config.Executor.Scoped)
	assert.Equal(t, "memory", config.Repository.Kind)
}
