// Package cmap provides a string-keyed concurrent map split into shards.
//
// Each shard has its own lock and keys are placed with MurmurHash3, so
// unrelated keys rarely contend. devhttps keeps its per-client rate
// limiters here.
//
// Usage:
//
//	m := cmap.New[*client]()
//	c := m.GetOrCreate("192.0.2.1", newClient)
//	m.DeleteIf(func(ip string, c *client) bool { return c.idle() })
package cmap
