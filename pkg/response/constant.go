package response

const (
	// MessageSuccess is the default success message.
	MessageSuccess = "Success"
	// DefaultErrorMessage hides internal failures from callers.
	DefaultErrorMessage = "Something went wrong"
	// InternalServerErrorCode is the error code for unclassified failures.
	InternalServerErrorCode = 500
)
