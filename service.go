package actflow

import (
	"log"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/x"

	"github.com/viant/actflow/extension"
	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/model/types"
	"github.com/viant/actflow/runtime/instance"
	"github.com/viant/actflow/service/action/nop"
	"github.com/viant/actflow/service/action/printer"
	"github.com/viant/actflow/service/action/system/exec"
	"github.com/viant/actflow/service/controller"
	"github.com/viant/actflow/service/dao"
	dmemory "github.com/viant/actflow/service/dao/definition/memory"
	"github.com/viant/actflow/service/executor"
	"github.com/viant/actflow/service/meta"
	"github.com/viant/actflow/service/repository"
	rfs "github.com/viant/actflow/service/repository/fs"
	rmemory "github.com/viant/actflow/service/repository/memory"
	"github.com/viant/actflow/tracing"
)

type Service struct {
	config            *Config
	runtime           *Runtime
	metaService       *meta.Service
	metaBaseURL       string
	metaFsOptions     []storage.Option
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionHandlers []types.Handler
	instances         *instance.Manager
	definitions       dao.Service[string, graph.Definition]
	repository        repository.Repository
	executor          executor.Service
	executorOptions   []executor.Option
	controller        *controller.Service
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	if s.config.Tracing.Enabled {
		if err := tracing.Init("actflow", "0.1.0", s.config.Tracing.OutputFile); err != nil {
			log.Printf("failed to initialise tracing: %v", err)
		}
	}

	s.actions = extension.NewActions(s.extensionTypes...)
	executorOptions := append([]executor.Option{
		executor.WithScoped(s.config.Executor.Scoped),
		executor.WithElapsedLogging(s.config.Executor.LogElapsed),
	}, s.executorOptions...)
	s.executor = executor.New(s.actions, s.instances, executorOptions...)

	_ = s.actions.RegisterHandler(printer.New())
	_ = s.actions.RegisterHandler(nop.New())
	_ = s.actions.RegisterHandler(exec.New())
	for _, handler := range s.extensionHandlers {
		if err := s.actions.RegisterHandler(handler); err != nil {
			log.Printf("failed to register handler: %v", err)
		}
	}

	s.controller = controller.New(s.definitions, s.instances, s.executor, s.repository)
	s.runtime = &Runtime{service: s}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.instances == nil {
		s.instances = instance.NewManager()
	}
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.definitions == nil {
		s.definitions = dmemory.New()
	}
	if s.repository == nil {
		switch s.config.Repository.Kind {
		case "fs":
			repo, err := rfs.New(s.config.Repository.BaseURL)
			if err != nil {
				log.Printf("failed to create fs repository, falling back to memory: %v", err)
				s.repository = rmemory.New()
				return
			}
			s.repository = repo
		default:
			s.repository = rmemory.New()
		}
	}
}

// Actions exposes the action handler registry.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// RegisterHandler binds a handler in the action registry under its own name.
func (s *Service) RegisterHandler(handler types.Handler) error {
	return s.actions.RegisterHandler(handler)
}

// RegisterExtensionTypes registers go types usable by typed handlers.
func (s *Service) RegisterExtensionTypes(goTypes ...*x.Type) {
	for i := range goTypes {
		s.actions.Types().Register(goTypes[i])
	}
}

// Runtime returns the engine facade.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// New creates the engine service with the supplied options.
func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}
