package campaign

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/adapters"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/adapters/meta"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/adapters/stub"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/dispatch"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/pipeline"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/repository"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign/service"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("campaign.service",
	fx.Provide(
		repository.Provide,
		newAdapterRegistry,
		newPipeline,
		dispatch.New,
		service.NewService,
	),
)

func newAdapterRegistry(cfg config.Config) *adapters.Registry {
	metaAdapter := meta.New(cfg.Meta, cfg.SiteURL)
	metaAdapter.SetHTTPClient(tracing.WrapHTTPClient(&http.Client{Timeout: 30 * time.Second}))

	return adapters.NewRegistry().
		RegisterStep(domain.PlatformMeta, metaAdapter).
		RegisterSimple(domain.PlatformGoogleAds, stub.NewGoogleAds()).
		RegisterSimple(domain.PlatformLinkedIn, stub.NewLinkedIn()).
		RegisterSimple(domain.PlatformTwitter, stub.NewTwitter())
}

func newPipeline(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, clk clock.Clock, repo domain.Repository) *pipeline.Pipeline {
	return pipeline.New(db, log, genID, clk, repo)
}
