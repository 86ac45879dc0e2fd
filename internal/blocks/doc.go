// Package blocks reconciles block manifests in a build tree against a source
// tree. A block is a directory holding a manifest file (block.json by
// default). Before matching, build directories that declare the same block
// name are pruned so that only the most recently modified copy survives. The
// build manifests whose directory, relative to the build root, also exists
// relative to the source root are then handed to a Registrar in walk order.
//
// All work is synchronous and touches only the filesystem. Callers must not
// run two passes against the same trees at once; nothing here locks.
package blocks
