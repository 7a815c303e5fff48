package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldPath          = "path"
	FieldBackend       = "backend"
	FieldTransactionID = "transaction_id"
	FieldDate          = "date"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldCount         = "count"
	FieldRows          = "rows"
	FieldBackupPath    = "backup_path"
	FieldSheet         = "sheet"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentStore       = "store"
	ComponentStorage     = "storage"
	ComponentMigration   = "migration"
	ComponentInterchange = "interchange"
	ComponentBackend     = "backend"
	ComponentCLI         = "cli"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpGet     = "get"
	OpList    = "list"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpQuery   = "query"
	OpMigrate = "migrate"
	OpBackup  = "backup"
	OpExport  = "export"
	OpImport  = "import"
)
