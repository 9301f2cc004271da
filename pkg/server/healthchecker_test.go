package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositeHealthChecker(t *testing.T) {
	down := HealthCheckerFunc(func(context.Context) bool { return false })
	ctx := context.Background()

	tests := []struct {
		name     string
		checkers []NamedChecker
		want     bool
	}{
		{name: "empty", want: true},
		{name: "all up", checkers: []NamedChecker{{"store", NewOkHealthChecker()}, {"search", NewOkHealthChecker()}}, want: true},
		{name: "one down", checkers: []NamedChecker{{"store", NewOkHealthChecker()}, {"search", down}}, want: false},
		{name: "nil skipped", checkers: []NamedChecker{{"store", NewOkHealthChecker()}, {"search", nil}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewCompositeHealthChecker(tt.checkers...).Healthy(ctx))
		})
	}
}
