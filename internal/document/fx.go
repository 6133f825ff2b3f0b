package document

import (
	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/document/images"
	"github.com/smallbiznis/officecrm/internal/document/render"
	"github.com/smallbiznis/officecrm/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(func(company config.Company) *render.Renderer { return render.New(company) }),
	fx.Provide(images.New),
	fx.Provide(service.New),
)
