package errors

// ErrorCode represents an application-specific error code
type ErrorCode string

const (
	// Generic errors
	ErrUnknown          ErrorCode = "ERR_UNKNOWN"
	ErrInternal         ErrorCode = "ERR_INTERNAL"
	ErrInvalidArgument  ErrorCode = "ERR_INVALID_ARGUMENT"
	ErrNotFound         ErrorCode = "ERR_NOT_FOUND"
	ErrPermissionDenied ErrorCode = "ERR_PERMISSION_DENIED"

	// Credential discovery errors
	ErrCredentialFileNotFound    ErrorCode = "ERR_CREDENTIAL_FILE_NOT_FOUND"
	ErrCredentialFileUnreadable  ErrorCode = "ERR_CREDENTIAL_FILE_UNREADABLE"
	ErrCredentialMalformed       ErrorCode = "ERR_CREDENTIAL_MALFORMED"
	ErrCredentialTypeUnsupported ErrorCode = "ERR_CREDENTIAL_TYPE_UNSUPPORTED"
	ErrCredentialMissingField    ErrorCode = "ERR_CREDENTIAL_MISSING_FIELD"
	ErrNoCredentials             ErrorCode = "ERR_NO_CREDENTIALS"

	// Metadata probe errors
	ErrMetadataProbeUnavailable ErrorCode = "ERR_METADATA_PROBE_UNAVAILABLE"

	// Configuration errors
	ErrConfigInvalid      ErrorCode = "ERR_CONFIG_INVALID"
	ErrConfigLoadFailed   ErrorCode = "ERR_CONFIG_LOAD_FAILED"
	ErrConfigMissingField ErrorCode = "ERR_CONFIG_MISSING_FIELD"

	// Validation errors
	ErrValidationFailed ErrorCode = "ERR_VALIDATION_FAILED"

	// Token errors
	ErrTokenFetchFailed ErrorCode = "ERR_TOKEN_FETCH_FAILED"
	ErrTokenExpired     ErrorCode = "ERR_TOKEN_EXPIRED"

	// Exec plugin errors
	ErrExecOutputInvalid ErrorCode = "ERR_EXEC_OUTPUT_INVALID"
	ErrExecOutputFailed  ErrorCode = "ERR_EXEC_OUTPUT_FAILED"
)

// ErrorInfo contains metadata about an error code
type ErrorInfo struct {
	Code   ErrorCode
	Type   string
	Status int
	Title  string
}

// errorInfoMap maps error codes to their metadata
var errorInfoMap = map[ErrorCode]ErrorInfo{
	// Generic errors (500)
	ErrUnknown: {
		Code:   ErrUnknown,
		Type:   "https://cloudmesa.dev/gcpadc/errors/unknown",
		Status: 500,
		Title:  "Unknown Error",
	},
	ErrInternal: {
		Code:   ErrInternal,
		Type:   "https://cloudmesa.dev/gcpadc/errors/internal",
		Status: 500,
		Title:  "Internal Error",
	},

	// Client errors (400)
	ErrInvalidArgument: {
		Code:   ErrInvalidArgument,
		Type:   "https://cloudmesa.dev/gcpadc/errors/invalid-argument",
		Status: 400,
		Title:  "Invalid Argument",
	},
	ErrCredentialMalformed: {
		Code:   ErrCredentialMalformed,
		Type:   "https://cloudmesa.dev/gcpadc/errors/credential-malformed",
		Status: 400,
		Title:  "Malformed Credential",
	},
	ErrCredentialTypeUnsupported: {
		Code:   ErrCredentialTypeUnsupported,
		Type:   "https://cloudmesa.dev/gcpadc/errors/credential-type-unsupported",
		Status: 400,
		Title:  "Unsupported Credential Type",
	},
	ErrCredentialMissingField: {
		Code:   ErrCredentialMissingField,
		Type:   "https://cloudmesa.dev/gcpadc/errors/credential-missing-field",
		Status: 400,
		Title:  "Missing Credential Field",
	},
	ErrValidationFailed: {
		Code:   ErrValidationFailed,
		Type:   "https://cloudmesa.dev/gcpadc/errors/validation-failed",
		Status: 400,
		Title:  "Validation Failed",
	},

	// Not found errors (404)
	ErrNotFound: {
		Code:   ErrNotFound,
		Type:   "https://cloudmesa.dev/gcpadc/errors/not-found",
		Status: 404,
		Title:  "Not Found",
	},
	ErrCredentialFileNotFound: {
		Code:   ErrCredentialFileNotFound,
		Type:   "https://cloudmesa.dev/gcpadc/errors/credential-file-not-found",
		Status: 404,
		Title:  "Credential File Not Found",
	},
	ErrNoCredentials: {
		Code:   ErrNoCredentials,
		Type:   "https://cloudmesa.dev/gcpadc/errors/no-credentials",
		Status: 404,
		Title:  "No Credentials Found",
	},

	// Permission errors (403)
	ErrPermissionDenied: {
		Code:   ErrPermissionDenied,
		Type:   "https://cloudmesa.dev/gcpadc/errors/permission-denied",
		Status: 403,
		Title:  "Permission Denied",
	},

	// Credential loading errors (500)
	ErrCredentialFileUnreadable: {
		Code:   ErrCredentialFileUnreadable,
		Type:   "https://cloudmesa.dev/gcpadc/errors/credential-file-unreadable",
		Status: 500,
		Title:  "Credential File Unreadable",
	},

	// Metadata probe errors (503)
	ErrMetadataProbeUnavailable: {
		Code:   ErrMetadataProbeUnavailable,
		Type:   "https://cloudmesa.dev/gcpadc/errors/metadata-probe-unavailable",
		Status: 503,
		Title:  "Metadata Server Unavailable",
	},

	// Configuration errors (500)
	ErrConfigInvalid: {
		Code:   ErrConfigInvalid,
		Type:   "https://cloudmesa.dev/gcpadc/errors/config-invalid",
		Status: 500,
		Title:  "Invalid Configuration",
	},
	ErrConfigLoadFailed: {
		Code:   ErrConfigLoadFailed,
		Type:   "https://cloudmesa.dev/gcpadc/errors/config-load-failed",
		Status: 500,
		Title:  "Configuration Load Failed",
	},
	ErrConfigMissingField: {
		Code:   ErrConfigMissingField,
		Type:   "https://cloudmesa.dev/gcpadc/errors/config-missing-field",
		Status: 500,
		Title:  "Missing Configuration Field",
	},

	// Token errors
	ErrTokenFetchFailed: {
		Code:   ErrTokenFetchFailed,
		Type:   "https://cloudmesa.dev/gcpadc/errors/token-fetch-failed",
		Status: 500,
		Title:  "Token Fetch Failed",
	},
	ErrTokenExpired: {
		Code:   ErrTokenExpired,
		Type:   "https://cloudmesa.dev/gcpadc/errors/token-expired",
		Status: 401,
		Title:  "Token Expired",
	},

	// Exec plugin errors (500)
	ErrExecOutputInvalid: {
		Code:   ErrExecOutputInvalid,
		Type:   "https://cloudmesa.dev/gcpadc/errors/exec-output-invalid",
		Status: 500,
		Title:  "Invalid Exec Credential Output",
	},
	ErrExecOutputFailed: {
		Code:   ErrExecOutputFailed,
		Type:   "https://cloudmesa.dev/gcpadc/errors/exec-output-failed",
		Status: 500,
		Title:  "Exec Credential Output Failed",
	},
}

// GetErrorInfo returns metadata for an error code
func GetErrorInfo(code ErrorCode) ErrorInfo {
	if info, ok := errorInfoMap[code]; ok {
		return info
	}
	return errorInfoMap[ErrUnknown]
}

// IsRetryable returns true if the error code indicates a retryable error
func IsRetryable(code ErrorCode) bool {
	retryableCodes := []ErrorCode{
		ErrMetadataProbeUnavailable,
		ErrTokenFetchFailed,
	}

	for _, retryable := range retryableCodes {
		if code == retryable {
			return true
		}
	}
	return false
}
