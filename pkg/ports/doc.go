/*
Package ports defines the driven ports (interfaces) for the Waymark engine.

These interfaces decouple the checklist and calendar logic from external
implementations, so the engine works with various step sources and snapshot stores.

# Key Interfaces

  - StepLoader: Responsible for loading step definitions (e.g., from Loam, a YAML file or memory).
  - Watchable: Optional capability of loaders that can signal changes for hot reload.
  - SnapshotStore: Responsible for persisting tenant snapshots between requests.
  - DistributedLocker: Serializes writes to one tenant across replicas (e.g., Redis).
  - Engine: The surface transport adapters (HTTP, MCP) drive.
*/
package ports
