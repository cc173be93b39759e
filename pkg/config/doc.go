// Package config resolves per-site update settings.
//
// Settings come from three layers, lowest to highest precedence: the
// embedded defaults, the global settings block (from a fleet file or from
// command-line flags) and the per-site block (fleet file only). Scalars are
// overridden by the higher layer. The exclude list and the notification
// recipient lists are merged as a deduplicated union.
package config
