package domain

// SurfaceSettings carries the capability flags applied to every
// surface session the host creates.
type SurfaceSettings struct {
	// EnableScripts controls whether the surface shell is served with
	// script execution enabled.
	EnableScripts bool

	// AllowedOrigins lists origins permitted to open a surface
	// connection. Empty means same-origin only.
	AllowedOrigins []string
}

// ServerSettings configures the surface-hosting HTTP server.
type ServerSettings struct {
	// Addr is the listen address, host:port.
	Addr string
}

// AppSettings is the full application configuration.
type AppSettings struct {
	Surface SurfaceSettings
	Server  ServerSettings
}

// DefaultAppSettings returns the configuration used when nothing is
// stored: scripts enabled, same-origin only, loopback listener.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Surface: SurfaceSettings{
			EnableScripts:  true,
			AllowedOrigins: nil,
		},
		Server: ServerSettings{
			Addr: "localhost:8040",
		},
	}
}
