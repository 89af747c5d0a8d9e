/*
Package session serializes snapshot writes per tenant.

A Manager wraps any ports.SnapshotStore. Operations on the same tenant run one
at a time inside the process; with a DistributedLocker they are also serialized
across replicas sharing the store. Swap returns the snapshot it replaced, which
lets transports compute evaluation diffs without racing concurrent writers.
*/
package session
