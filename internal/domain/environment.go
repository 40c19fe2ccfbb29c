package domain

// EnvironmentSnapshot holds host data injected into the system prompt and doctor checks.
type EnvironmentSnapshot struct {
	WorkingDir     string
	Shell          string
	OS             string
	User           string
	AvailableTools []string
	MissingTools   []string
}
