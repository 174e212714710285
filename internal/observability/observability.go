// Package observability starts the optional exporters and profilers a
// process runs next to its workload.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/squad-tracker/internal/config"
	"github.com/riskibarqy/squad-tracker/internal/platform/logging"
)

// Stack is what Setup started. Shutdown stops it in reverse order.
type Stack struct {
	logger *logging.Logger
	stops  []namedStop
}

type namedStop struct {
	name string
	stop func(context.Context) error
}

// Setup starts tracing, continuous profiling and the pprof listener as cfg
// enables them. Anything started before a failure is stopped again.
func Setup(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger.Named("observability")}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{"tracing", startTracing},
		{"profiler", startProfiler},
		{"pprof", startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, s.logger)
		if err != nil {
			_ = s.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		if stop != nil {
			s.stops = append(s.stops, namedStop{name: step.name, stop: stop})
		}
	}
	return s, nil
}

// Running lists what Setup started, in start order.
func (s *Stack) Running() []string {
	names := make([]string, 0, len(s.stops))
	for _, st := range s.stops {
		names = append(names, st.name)
	}
	return names
}

func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.stops) - 1; i >= 0; i-- {
		st := s.stops[i]
		if err := st.stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", st.name, err))
		}
	}
	s.stops = nil
	return errors.Join(errs...)
}
