package cmd

// Exit codes for shotlog CLI
const (
	// ExitSuccess indicates the session stopped and every capture succeeded
	ExitSuccess = 0

	// ExitCaptureFailure indicates the session stopped but some captures failed
	ExitCaptureFailure = 1

	// ExitDocumentError indicates the document could not be opened or saved
	ExitDocumentError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
