package config

// Configuration file paths
const (
	ConfigPathItems   = "configs/items/items.json"
	ConfigPathBalance = "configs/balance.yaml"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Example values shipped in .env.example that must not reach production
const (
	InsecureDBPassword = "change_this_secure_password"
	InsecureAPIKey     = "generate_with_openssl_rand_hex_32"
)
