package invoice

import (
	"github.com/smallbiznis/rentflow/internal/config"
	"github.com/smallbiznis/rentflow/internal/invoice/compose"
	"github.com/smallbiznis/rentflow/internal/invoice/render"
	"github.com/smallbiznis/rentflow/internal/invoice/service"
	"github.com/smallbiznis/rentflow/internal/providers/pdf"
	"github.com/smallbiznis/rentflow/internal/ratelimit"
	"github.com/smallbiznis/rentflow/internal/taxcase"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	taxcase.Module,
	fx.Provide(compose.New),
	fx.Provide(render.NewHTMLRenderer),
	fx.Provide(render.NewXLSXRenderer),
	fx.Provide(newRegistry),
	fx.Provide(newGenerationLock),
	fx.Provide(service.NewService),
)

type registryParams struct {
	fx.In

	Config config.Config
	HTML   *render.HTMLRenderer
	XLSX   *render.XLSXRenderer
	PDF    *pdf.Renderer
}

func newRegistry(p registryParams) *render.Registry {
	return render.NewRegistry(p.Config.Invoice.DefaultFormat, p.HTML, p.XLSX, p.PDF)
}

func newGenerationLock(limiter *ratelimit.DocumentLimiter) service.GenerationLock {
	return limiter
}
