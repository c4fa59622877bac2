package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/campaign"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/logger"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/migration"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/observability/tracing"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/plan"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/server"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/subscription"
	"github.com/regobertatangangwatangie-eng/farmpro/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		tracing.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),
		clock.Module,
		plan.Module,
		payment.Module,
		subscription.Module,
		campaign.Module,
		server.Module,
	)
	app.Run()
}
