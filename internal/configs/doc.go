// Package configs manages coffer's TOML configuration and default paths.
//
// The configuration lives at <UserConfigDir>/coffer/config.toml unless
// COFFER_CONFIG or the --config flag points elsewhere:
//
//	[instance]
//	uuid = "5b0c…"
//
//	[store]
//	backend = "file"          # memory | file | sqlite | redis
//	path = ""                 # defaults under the data directory
//	redis_addr = "localhost:6379"
//	redis_namespace = "coffer"
//	prefix = "searchzone_"
//
//	[codec]
//	cipher = "shift"          # shift | secretbox
//	digest = "legacy"         # legacy | blake2b
//	passphrase_env = "COFFER_PASSPHRASE"
//	salt = "9f…"              # hex, used by secretbox
//
//	[backup]
//	dir = "."
//
// # Settings
//
// CofferSettings holds the resolved config and data directories. It is
// initialized at startup from the XDG environment and may be replaced in
// tests.
package configs
