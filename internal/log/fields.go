package log

// Field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDate       = "date"
	FieldTimeOfDay  = "time_of_day"
	FieldFeeling    = "feeling"
	FieldYear       = "year"
	FieldWeeks      = "weeks"
	FieldBackend    = "backend"
	FieldDataDir    = "data_dir"
	FieldAddr       = "addr"
	FieldEventID    = "event_id"
	FieldRoutingKey = "routing_key"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentJournal = "journal"
	ComponentCatalog = "catalog"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentRender  = "render"
	ComponentCLI     = "cli"
)

// Operation names.
const (
	OpAdd       = "add_entry"
	OpDelete    = "delete_entry"
	OpRead      = "read"
	OpBootstrap = "bootstrap"
	OpRender    = "render"
	OpPublish   = "publish"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// Fields builds a set of structured attributes.
type Fields map[string]any

// NewFields returns an empty Fields.
func NewFields() Fields {
	return make(Fields)
}

// WithError records err when it is non-nil.
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation records the operation name.
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithEntry records the date, time and feeling of a journal entry.
func (f Fields) WithEntry(date, timeOfDay, feeling string) Fields {
	f[FieldDate] = date
	if timeOfDay != "" {
		f[FieldTimeOfDay] = timeOfDay
	}
	if feeling != "" {
		f[FieldFeeling] = feeling
	}
	return f
}

// WithHTTPRequest records request attributes.
func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithHTTPResponse records the status and duration of a response.
func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice flattens the fields into slog key/value pairs.
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
