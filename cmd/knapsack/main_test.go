package main

import (
	"context"
	"fmt"
	"testing"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupt", fmt.Errorf("solve: %w", context.Canceled), 130},
		{"invalid capacity", kerrors.New(kerrors.ErrCodeInvalidCapacity, "capacity must be positive"), 2},
		{"invalid format", kerrors.New(kerrors.ErrCodeInvalidFormat, "bad json"), 2},
		{"missing file", kerrors.New(kerrors.ErrCodeFileNotFound, "no such file"), 1},
		{"plain", fmt.Errorf("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
