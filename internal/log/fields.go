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
	FieldOperation    = "operation"
	FieldUserID       = "user_id"
	FieldCounterparty = "counterparty"
	FieldAmountCents  = "amount_cents"
	FieldCategory     = "category"
	FieldSortKey      = "sort_key"
	FieldBillStatus   = "bill_status"
	FieldTxID         = "transaction_id"
	FieldBudgetID     = "budget_id"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentAuth        = "auth"
	ComponentStorage     = "storage"
	ComponentBills       = "bills"
	ComponentBudgets     = "budgets"
	ComponentTransaction = "transactions"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentCache       = "cache"
	ComponentRateLimit   = "rate_limit"
	ComponentTrace       = "trace"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpDelete   = "delete"
	OpList     = "list"
	OpClassify = "classify"
	OpExport   = "export"
	OpLogin    = "login"
	OpSignUp   = "sign_up"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
