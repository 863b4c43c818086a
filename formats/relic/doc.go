// SPDX-License-Identifier: EPL-2.0

// Package relic probes the Relic .wxh/.wxd pair. The .wxh file lists the
// subsongs; each points at a DATA chunk in the .wxd file holding fixed
// size frames per channel.
package relic
