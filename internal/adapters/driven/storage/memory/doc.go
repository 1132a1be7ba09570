// Package memory provides in-process implementations of driven port
// interfaces. They back the service tests and the in-process terminal
// surface, where host and surface share one process.
//
// Adapters:
//   - DocumentHost: documents held in a map, change fan-out to watchers
//   - Channel: loopback channel pair created by NewChannelPair
//   - ConfigStore: map-backed configuration
package memory
