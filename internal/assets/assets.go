// Package assets bundles the default word list manifest and its lists.
package assets

import "embed"

// ManifestName is the manifest file name inside FS.
const ManifestName = "available-word-lists.json"

// FS holds the manifest and the word lists it references.
//
//go:embed available-word-lists.json wordlists/*.txt
var FS embed.FS
