package types

// Plugin describes a named, fixed set of relative paths bundled with the
// tool. Descriptors are loaded once from the embedded manifest and never
// mutated at runtime.
type Plugin struct {
	Name  string   `yaml:"name"`
	About string   `yaml:"about"`
	Files []string `yaml:"files"`
}
