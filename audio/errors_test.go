// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestProbeError_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"corrupt", Corrupt("tac", "frame_count %d", 0), ErrCorrupt},
		{"unsupported", Unsupported("fsb5", "mode %d", 12), ErrUnsupported},
		{"subsong", SubsongOutOfRange("fsb5", 4, 3), ErrSubsongOutOfRange},
		{"wrapped", fmt.Errorf("probe: %w", Corrupt("x", "y")), ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.want) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.want)
			}
			if errors.Is(tt.err, ErrReject) {
				t.Error("probe error matches ErrReject")
			}
		})
	}
}

func TestProbeError_Message(t *testing.T) {
	t.Parallel()

	err := SubsongOutOfRange("fsb5", 4, 3)
	want := "fsb5: subsong out of range: subsong 4 of 3"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestOpenError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &OpenError{Codec: Hevag, Err: ErrUnsupported}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("OpenError does not unwrap to its cause")
	}
	if err.Error() != "open Sony HEVAG 4-bit ADPCM: unsupported feature" {
		t.Errorf("Error() = %q", err.Error())
	}
}
