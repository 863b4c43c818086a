// SPDX-License-Identifier: EPL-2.0

// Package bytesrc provides the random-access byte sources every prober and
// decoder reads from.
//
// # Backends
//
//   - Memory: a byte slice plus a set of named companion buffers
//   - File: an open file shared between holders through Retain/Close
//
// # Views
//
// SubView carves a window out of a source (a subsong inside a bank, the data
// chunk of a RIFF file). WithName reports a source under a different name so
// extension-keyed probers accept it:
//
//	bank, _ := bytesrc.OpenFile("music.bnk")
//	defer bank.Close()
//	sub := bytesrc.WithName(bytesrc.SubView(bank, 0x800, 0x10000), "track.vag")
//	defer sub.Close()
//
// # Typed reads
//
// Package-level helpers (U16LE, U32BE, IsID, ...) return an ok flag that is
// false when the source cannot satisfy the width. Reader wraps the same reads
// for header parsing and remembers the first short read:
//
//	r := bytesrc.NewReader(src, binary.LittleEndian)
//	channels := r.U16(0x16)
//	rate := r.U32(0x18)
//	if r.Short() {
//	    return nil, audio.ErrReject
//	}
//
// Reads past the end never fail a session; they return short counts.
package bytesrc
