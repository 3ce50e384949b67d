/*
Package ports defines the driven ports (interfaces) of the courier engine.

These interfaces keep the routing core free of storage and transport
concerns. Adapters under pkg/adapters and internal/adapters implement them.

# Key Interfaces

  - SessionStore: persists simulation sessions (memory, file, Redis).
  - DistributedLocker: serializes access to a session across replicas.
  - Notifier: receives anomalies reported while planning (out-of-grid targets).
  - StatelessEngine: the surface used by the HTTP and MCP adapters.
*/
package ports
