// Package modules lists the web modules the server mounts.
package modules

import (
	module "github.com/digitalexpert/linkpage/internal/services/web/module"
	"github.com/digitalexpert/linkpage/internal/services/web/modules/api"
	"github.com/digitalexpert/linkpage/internal/services/web/modules/chat"
	"github.com/digitalexpert/linkpage/internal/services/web/modules/locales"
	"github.com/digitalexpert/linkpage/internal/services/web/modules/public"
)

// Default returns every module in mount order.
func Default() []module.Module {
	return []module.Module{
		public.New(),
		chat.New(),
		api.New(),
		locales.New(),
	}
}
