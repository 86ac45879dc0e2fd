// Package registry provides the registrars that receive reconciled block
// manifests. Index parses each manifest into a BlockRecord, rejects the ones
// it cannot use without failing the pass, and writes the collected records to
// a JSON or YAML index file. DryRun only prints the manifest paths it is given.
package registry
