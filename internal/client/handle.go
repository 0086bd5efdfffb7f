package client

// Handle identifies one discovered client: its kind and where its
// configuration lives. Handles are built fresh on every discovery pass and
// carry no persisted identity.
//
// A caller may redirect ConfigPath to a workspace-local path before first
// use (the VS Code per-project override); handles are otherwise not mutated
// after construction.
type Handle struct {
	// Kind is the client kind identifier (see internal/paths).
	Kind string

	// ConfigPath is the configuration file path for this client.
	ConfigPath string

	// Available indicates the client appears installed on this host.
	Available bool
}
