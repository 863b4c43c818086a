// SPDX-License-Identifier: EPL-2.0

// Package utk probes Maxis UTM0 files: a decompressed size, a WAVEFORMATEX
// and the MicroTalk stream right after it.
package utk
