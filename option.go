package actflow

import (
	"github.com/viant/afs/storage"
	"github.com/viant/x"

	"github.com/viant/actflow/model/graph"
	"github.com/viant/actflow/model/types"
	"github.com/viant/actflow/runtime/instance"
	"github.com/viant/actflow/service/dao"
	"github.com/viant/actflow/service/executor"
	"github.com/viant/actflow/service/meta"
	"github.com/viant/actflow/service/repository"
)

// Option customises the engine service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithExtensionTypes sets the extension types
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithHandlers registers additional action handlers at start-up.
func WithHandlers(handlers ...types.Handler) Option {
	return func(s *Service) {
		s.extensionHandlers = append(s.extensionHandlers, handlers...)
	}
}

// WithMetaService sets the document source service.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.metaService = service
	}
}

// WithMetaBaseURL sets the document source base URL.
func WithMetaBaseURL(url string) Option {
	return func(s *Service) {
		s.metaBaseURL = url
	}
}

// WithMetaFsOptions sets afs storage options for the document source.
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithDefinitionDAO sets the definition store.
func WithDefinitionDAO(definitions dao.Service[string, graph.Definition]) Option {
	return func(s *Service) {
		s.definitions = definitions
	}
}

// WithRepository sets the position repository.
func WithRepository(repo repository.Repository) Option {
	return func(s *Service) {
		s.repository = repo
	}
}

// WithInstanceManager sets the workflow instance manager.
func WithInstanceManager(instances *instance.Manager) Option {
	return func(s *Service) {
		s.instances = instances
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.New (e.g. a listener).
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}
