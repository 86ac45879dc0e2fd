// Package manifest handles parsing and validation of block manifests
// (block.json). Parsing is lenient and only needs a decodable document;
// validation checks the manifest against an embedded JSON schema and verifies
// that a declared version is a semantic version.
package manifest
