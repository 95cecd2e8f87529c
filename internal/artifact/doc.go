// SPDX-License-Identifier: MPL-2.0

// Package artifact classifies module archives found in a plugin directory.
//
// Archive names follow <artifactId>[-<version>]<suffix>. A Scanner lists one
// directory (not recursively) and builds an Index holding every matching file,
// duplicates included, ordered by comparable key. Scans are not incremental: a
// new Scan always rebuilds the Index from the directory listing.
package artifact
