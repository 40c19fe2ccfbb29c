package commands

// History listing defaults
const (
	DefaultHistoryLimit       = 20
	DefaultHistorySearchLimit = 50
	MaxHistoryAnalysisRecords = 1000
	DefaultHistoryTopCommands = 5
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history is disabled (set history.enabled: true)"
	ErrContextCountTooSmall     = "message count must be at least 1"
)

// Success and notice messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgContextCleared           = "Context has been successfully cleared."
	MsgContextEmpty             = "Context is empty."
	MsgUseToolsCommands         = "Please use 'cmdllm tools' commands to manage tools."
	MsgOperationCancelled       = "Operation cancelled"
	MsgNoToolsConfigured        = "No tools configured."
)

// AnnotationNoContainer marks commands that run without loading configuration.
const AnnotationNoContainer = "cmdllm/no-container"
