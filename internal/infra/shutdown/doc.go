// Package shutdown provides graceful shutdown for devhttps.
//
// This package handles process termination:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Programmatic shutdown through context cancellation or Trigger
//   - Timeout-bounded cleanup hooks, run in reverse registration order
//
// Usage:
//
//	ctx, stop := shutdown.NotifyContext(context.Background())
//	defer stop()
//	<-ctx.Done() // Wait for shutdown signal
package shutdown
