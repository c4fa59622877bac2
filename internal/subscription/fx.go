package subscription

import (
	"github.com/regobertatangangwatangie-eng/farmpro/internal/subscription/repository"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
