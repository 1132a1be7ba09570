package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g. TOML files) and type
// conversion. Keys use dot notation, e.g. "surface.enable_scripts".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value.
	// Returns empty string if the key is missing or not a string.
	GetString(key string) string

	// GetBool retrieves a boolean value.
	// Returns false if the key is missing or not a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value.
	// Returns nil if the key is missing or not a slice.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the backing file path, empty for in-memory stores.
	Path() string
}
