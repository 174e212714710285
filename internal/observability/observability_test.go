package observability

import (
	"context"
	"net"
	"slices"
	"testing"

	"github.com/riskibarqy/squad-tracker/internal/config"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

func TestSetup_DisabledStartsNothing(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"all off", config.Config{ServiceName: "squad-tracker-api", AppEnv: config.EnvDev}},
		{"uptrace without dsn", config.Config{UptraceEnabled: true, UptraceDSN: "  ", AppEnv: config.EnvDev}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stack, err := Setup(tc.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("setup: %v", err)
			}
			if running := stack.Running(); len(running) != 0 {
				t.Fatalf("expected nothing running, got %v", running)
			}
			if err := stack.Shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown: %v", err)
			}
		})
	}
}

func TestSetup_PprofListener(t *testing.T) {
	stack, err := Setup(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if running := stack.Running(); !slices.Equal(running, []string{"pprof"}) {
		t.Fatalf("expected pprof running, got %v", running)
	}
	if err := stack.Shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if running := stack.Running(); len(running) != 0 {
		t.Fatalf("expected an empty stack after shutdown, got %v", running)
	}
}

func TestSetup_BusyPprofPortFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	if _, err := Setup(config.Config{PprofEnabled: true, PprofAddr: ln.Addr().String()}, logging.NewNop()); err == nil {
		t.Fatalf("expected setup to fail on a busy pprof port")
	}
}

func TestStack_NilShutdown(t *testing.T) {
	var stack *Stack
	if err := stack.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil stack shutdown: %v", err)
	}
}
