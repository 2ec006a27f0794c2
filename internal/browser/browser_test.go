package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsInterrupted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "wrapped deadline", err: fmt.Errorf("click: %w", context.DeadlineExceeded), want: true},
		{name: "target closed", err: errors.New("target closed"), want: true},
		{name: "normal error", err: errors.New("node not found"), want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInterrupted(tc.err); got != tc.want {
				t.Fatalf("IsInterrupted(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
