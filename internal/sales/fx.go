package sales

import (
	"github.com/smallbiznis/demandcast/internal/calendar"
	"github.com/smallbiznis/demandcast/internal/sales/repository"
	"github.com/smallbiznis/demandcast/internal/sales/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sales.generator",
	fx.Provide(repository.Provide),
	fx.Provide(calendar.ProvideRepository),
	fx.Provide(service.New),
)
