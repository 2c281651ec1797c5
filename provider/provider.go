package provider

import (
	"homework-wall/biz/application/service"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/annotator"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/connection"

	"github.com/google/wire"
)

var provider *Provider

func Init() {
	var err error
	provider, err = NewProvider()
	if err != nil {
		panic(err)
	}
}

// Provider 提供controller依赖的对象
type Provider struct {
	Config          *config.Config
	View            *view.State
	HomeworkService service.IHomeworkService
	SetupService    service.ISetupService
	SessionService  service.ISessionService
}

func Get() *Provider {
	return provider
}

var ApplicationSet = wire.NewSet(
	view.NewState,
	service.NewAnnotationTasks,
	service.HomeworkServiceSet,
	service.SetupServiceSet,
	service.SessionServiceSet,
)

var InfrastructureSet = wire.NewSet(
	config.NewConfig,
	annotator.NewResolver,
	connection.NewManager,
	connection.NewFileStore,
	wire.Bind(new(connection.IStore), new(*connection.FileStore)),
	connection.NewBuilder,
	wire.Bind(new(connection.IBuilder), new(*connection.Builder)),
)

var AllProvider = wire.NewSet(
	wire.Struct(new(Provider), "*"),
	ApplicationSet,
	InfrastructureSet,
)
