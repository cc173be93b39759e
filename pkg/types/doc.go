// Package types defines the data model shared by the fleet resolver, the
// queue builder and the update orchestrator: site descriptors, environment
// references, connection modes, package status entries and the immutable
// per-site update job.
package types
