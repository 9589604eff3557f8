package dpt

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/puneettiwariofficial/go-dpt/pkg/interfaces"
)

// Module wires a Coordinator into an fx.App: construct it from the
// private key, Server, and DNSProvider supplied by other modules, then
// bind it on start and destroy it on stop. The zap-backed fx event logger
// mirrors the root application's fx.go; a host app wiring its own
// fx.WithLogger at the top level takes precedence over this one.
var Module = fx.Module("dpt",
	fx.WithLogger(func() fxevent.Logger {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}),
	fx.Provide(NewFromParams),
	fx.Invoke(registerLifecycle),
)

// PrivateKey is the secp256k1 private key fx should hand to New. It is a
// distinct type rather than a bare []byte so fx.Provide doesn't collide
// with some other module also providing a []byte.
type PrivateKey []byte

// Params are the Coordinator's fx dependencies.
type Params struct {
	fx.In

	PrivateKey  PrivateKey
	Server      interfaces.Server
	DNSProvider interfaces.DNSProvider `optional:"true"`
	Config      *Config                `optional:"true"`
}

// NewFromParams builds a Coordinator from fx-provided dependencies,
// falling back to DefaultConfig when none is supplied.
func NewFromParams(p Params) (*Coordinator, error) {
	cfg := DefaultConfig()
	if p.Config != nil {
		cfg = *p.Config
	}
	return New(p.PrivateKey, p.Server, p.DNSProvider, cfg)
}

type lifecycleInput struct {
	fx.In
	LC          fx.Lifecycle
	Coordinator *Coordinator
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Coordinator.Bind(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Coordinator.Destroy()
		},
	})
}
