package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldEntryID    = "entry_id"
	FieldEntryTitle = "entry_title"
	FieldAmount     = "amount"
	FieldGiver      = "giver"
	FieldCounty     = "county"
	FieldSheetRef   = "sheet_ref"
	FieldArticleURL = "article_url"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentAuth    = "auth"
	ComponentSummary = "summary"
	ComponentBackend = "backend"
)

// LogFields provides a builder for structured log attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntry adds entry identification fields.
func (f LogFields) WithEntry(id, title string, amount int64) LogFields {
	f[FieldEntryID] = id
	f[FieldEntryTitle] = title
	f[FieldAmount] = amount
	return f
}

// Args flattens the fields into alternating key/value slog arguments.
func (f LogFields) Args() []any {
	args := make([]any, 0, len(f)*2)
	for k, v := range f {
		args = append(args, k, v)
	}
	return args
}
