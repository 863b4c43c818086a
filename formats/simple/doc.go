// SPDX-License-Identifier: EPL-2.0

// Package simple probes small headered formats from a declarative table.
//
// Every entry of Formats names a magic, a byte order, a codec and where
// the header keeps the channel count, rate, data start, sizes and loop.
// Values missing from a header are either constants or derived from the
// data size.
package simple
