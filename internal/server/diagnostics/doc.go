// Package diagnostics works out how other devices on the network can reach
// this machine and prints the startup access banner.
//
// Resolution is best effort and bounded in time: it never fails, it only
// degrades to less specific answers and finally to a placeholder.
package diagnostics
