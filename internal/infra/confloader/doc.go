// Package confloader provides the configuration loading mechanism.
//
// It implements a layered loader on top of koanf:
//
//   - Sources: YAML file, DEVHTTPS_* environment variables, flag maps
//   - Unmarshaling into typed structs via koanf tags
//   - Watch support: callbacks when the config file changes on disk
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Default values
package confloader
