package payment

import (
	"net/http"
	"time"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/observability/tracing"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/adapters"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/adapters/flutterwave"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/adapters/mobilemoney"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/adapters/paystack"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.adapters",
	fx.Provide(func(cfg config.Config) *adapters.Registry {
		client := tracing.WrapHTTPClient(&http.Client{Timeout: 30 * time.Second})

		fw := flutterwave.New(cfg.Payments)
		fw.SetHTTPClient(client)
		ps := paystack.New(cfg.Payments)
		ps.SetHTTPClient(client)

		return adapters.NewRegistry().
			Register(domain.MethodMobileMoney, mobilemoney.New(cfg.Payments)).
			Register(domain.MethodFlutterwave, fw).
			Register(domain.MethodPaystack, ps)
	}),
)
