package safefileio

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoFollowError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "ELOOP error", err: &os.PathError{Err: syscall.ELOOP}, want: true},
		{name: "EMLINK error", err: &os.PathError{Err: syscall.EMLINK}, want: true},
		{name: "other error", err: os.ErrNotExist, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNoFollowError(tt.err))
		})
	}
}
