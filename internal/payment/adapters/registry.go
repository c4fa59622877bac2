// Package adapters maps payment methods onto their gateway adapters.
package adapters

import (
	"strings"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
)

// Registry resolves a payment method to the adapter that handles it. The set
// of supported methods is closed; unknown methods never fall through to a
// default gateway.
type Registry struct {
	adapters map[domain.Method]domain.ChargeAdapter
}

// NewRegistry builds a registry from the given method bindings.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[domain.Method]domain.ChargeAdapter)}
}

// Register binds a method to an adapter.
func (r *Registry) Register(method domain.Method, adapter domain.ChargeAdapter) *Registry {
	r.adapters[method] = adapter
	return r
}

// ForMethod returns the adapter handling a method. "card" is an alias for
// the hosted Flutterwave checkout.
func (r *Registry) ForMethod(raw string) (domain.ChargeAdapter, error) {
	method := domain.Method(strings.ToLower(strings.TrimSpace(raw)))
	if method == domain.MethodCard {
		method = domain.MethodFlutterwave
	}
	adapter, ok := r.adapters[method]
	if !ok {
		return nil, domain.ErrUnsupportedMethod
	}
	return adapter, nil
}
