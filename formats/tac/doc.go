// SPDX-License-Identifier: EPL-2.0

// Package tac probes tri-Ace TAC streams: fixed 0x4E000 byte blocks, the
// first one opening with a 0x20 byte header and the entropy tables. The
// header has no magic, so the prober only runs for .tac files and rejects
// anything whose sizes do not add up.
package tac
