package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldQuery        = "query"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldErrorType    = "error_type"
	FieldOperation    = "operation"
	FieldUpstreamPath = "upstream_path"
	FieldUpstreamCode = "upstream_status"
	FieldCacheKey     = "cache_key"
	FieldSession      = "session"
	FieldUserID       = "user_id"
	FieldEntityID     = "entity_id"
	FieldAmount       = "amount"
	FieldRedirect     = "redirect_to"
	FieldOrigin       = "origin"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAPI       = "api"
	ComponentCache     = "cache"
	ComponentGate      = "gate"
	ComponentSession   = "session"
	ComponentDebt      = "debt"
	ComponentRecv      = "receivable"
	ComponentExpense   = "expense"
	ComponentProfile   = "profile"
	ComponentAdmin     = "admin"
	ComponentAMQP      = "amqp"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names
const (
	OpCreate        = "create"
	OpRead          = "read"
	OpUpdate        = "update"
	OpDelete        = "delete"
	OpList          = "list"
	OpPay           = "pay"
	OpDeleteHistory = "delete_history"
	OpRevalidate    = "revalidate"
	OpInvalidate    = "invalidate"
	OpPublish       = "publish"
	OpValidate      = "validate"
	OpLogin         = "login"
	OpLogout        = "logout"
	OpShutdown      = "shutdown"
	OpStartup       = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeAuth          = "auth_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeUpstream      = "upstream_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(kind string) LogFields {
	f[FieldErrorType] = kind
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithUpstream adds the upstream route and status of an API call
func (f LogFields) WithUpstream(method, path string, status int) LogFields {
	f[FieldMethod] = method
	f[FieldUpstreamPath] = path
	f[FieldUpstreamCode] = status
	return f
}

// WithEntity adds entity id and amount fields for money mutations
func (f LogFields) WithEntity(id string, amount int64) LogFields {
	f[FieldEntityID] = id
	f[FieldAmount] = amount
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
