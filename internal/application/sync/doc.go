// Package sync implements the synchronization flows between the host
// system and a remote storefront: batch discovery, per-record importers
// with dependency resolution, outbound exporters, and the operator-facing
// service that schedules them.
package sync
