// SPDX-License-Identifier: MPL-2.0

// Package versionkey encodes raw version strings into fixed-width keys whose
// plain string order matches version order.
//
// A key is built from at most four dot/dash separated fragments. Each fragment
// occupies one 8-character field:
//
//	"12"       -> "Z0000012"   numeric: '0'-padded to 7, prefixed with the 'Z' sentinel
//	"SNAPSHOT" -> "SNAPSHOT"   text: upper-cased, '0'-padded to 8
//	"rc1"      -> "00000RC1"
//
// The sentinel sorts after every text field, so "1.0.0-SNAPSHOT" sorts below
// "1.0.0" (whose fourth field is the numeric "0"). Fragments past the fourth are
// dropped and oversized fragments are clamped; both are lossy on purpose and
// keep every key the same length.
package versionkey
