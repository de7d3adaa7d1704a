package training

import (
	"github.com/smallbiznis/demandcast/internal/seasonal"
	"github.com/smallbiznis/demandcast/internal/training/repository"
	"github.com/smallbiznis/demandcast/internal/training/service"
	"go.uber.org/fx"
)

var Module = fx.Module("training.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		fx.Annotate(seasonal.NewHoltWinters, fx.As(new(seasonal.Fitter))),
		seasonal.DefaultOptions,
	),
	fx.Provide(service.New),
)
