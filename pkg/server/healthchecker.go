package server

import (
	"context"
	"log/slog"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(context.Context) bool {
	return true
}

// NamedChecker labels a checker for logging.
type NamedChecker struct {
	Name    string
	Checker HealthChecker
}

// CompositeHealthChecker is healthy only when every dependency is. Each
// failing dependency is logged by name.
type CompositeHealthChecker struct {
	checkers []NamedChecker
}

func NewCompositeHealthChecker(checkers ...NamedChecker) *CompositeHealthChecker {
	return &CompositeHealthChecker{checkers: checkers}
}

func (hc *CompositeHealthChecker) Healthy(ctx context.Context) bool {
	healthy := true
	for _, c := range hc.checkers {
		if c.Checker == nil {
			continue
		}
		if !c.Checker.Healthy(ctx) {
			slog.Warn("Health check failed", "dependency", c.Name)
			healthy = false
		}
	}
	return healthy
}
