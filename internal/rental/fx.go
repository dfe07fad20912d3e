package rental

import (
	"github.com/smallbiznis/rentflow/internal/rental/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("rental.repository",
	fx.Provide(repository.Provide),
)
