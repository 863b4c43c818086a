// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrReject is returned by a prober that does not recognize the stream.
	ErrReject = errors.New("format rejected")

	ErrCorrupt           = errors.New("corrupt stream")
	ErrUnsupported       = errors.New("unsupported feature")
	ErrSubsongOutOfRange = errors.New("subsong out of range")
	ErrUnknownFormat     = errors.New("no prober accepted the stream")
	ErrInvalidBlueprint  = errors.New("invalid blueprint")
	ErrNoExternalCodec   = errors.New("external codec not available")
	ErrInvalidDstSize    = errors.New("dst size must be multiple of channels")
)

// ErrorKind classifies probe failures.
type ErrorKind uint8

const (
	KindCorrupt ErrorKind = iota + 1
	KindUnsupported
	KindSubsongOutOfRange
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindCorrupt:
		return ErrCorrupt
	case KindUnsupported:
		return ErrUnsupported
	case KindSubsongOutOfRange:
		return ErrSubsongOutOfRange
	}

	return ErrCorrupt
}

// ProbeError is a probe failure after the signature matched.
type ProbeError struct {
	Kind   ErrorKind
	Format string
	Msg    string
}

func (e *ProbeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%v: %s", e.Kind.sentinel(), e.Msg)
	}

	return fmt.Sprintf("%s: %v: %s", e.Format, e.Kind.sentinel(), e.Msg)
}

func (e *ProbeError) Unwrap() error { return e.Kind.sentinel() }

// Corrupt reports a stream whose header matched but whose structure is broken.
func Corrupt(format, msg string, args ...any) error {
	return &ProbeError{Kind: KindCorrupt, Format: format, Msg: fmt.Sprintf(msg, args...)}
}

// Unsupported reports a recognized variant that cannot be decoded.
func Unsupported(format, msg string, args ...any) error {
	return &ProbeError{Kind: KindUnsupported, Format: format, Msg: fmt.Sprintf(msg, args...)}
}

// SubsongOutOfRange reports a subsong index outside 1..count.
func SubsongOutOfRange(format string, index, count int) error {
	return &ProbeError{
		Kind:   KindSubsongOutOfRange,
		Format: format,
		Msg:    fmt.Sprintf("subsong %d of %d", index, count),
	}
}

// OpenError is returned when a blueprint cannot start a session.
type OpenError struct {
	Codec CodecID
	Err   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Codec, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }
