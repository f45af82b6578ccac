package sqlerr

// Code is a driver-agnostic category for database errors.
//
// Raw SQLSTATE codes (e.g. "23505") are mapped into these so the rest of the
// application can switch on meaningful names instead of magic strings.
type Code string

const (
	// ForeignKeyViolation: a referenced row does not exist (SQLSTATE 23503).
	ForeignKeyViolation Code = "foreign_key_violation"

	// UniqueViolation: a row with the same unique key already exists (23505).
	UniqueViolation Code = "unique_violation"

	// NotNullViolation: a required column was null (23502).
	NotNullViolation Code = "not_null_violation"

	// CheckViolation: a CHECK constraint rejected a value (23514).
	CheckViolation Code = "check_violation"

	// Other covers every error we don't classify further.
	Other Code = "other"
)

// Severity mirrors the severity field reported by the database server.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityOther   Severity = "OTHER"
)

// Error is the normalized database error used inside the application.
//
// It keeps both the mapped category (Code) and the original driver data
// (DatabaseCode, table/column/constraint names) so error handling can build
// precise client messages while logs retain the raw details.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	// driverErr is the original driver error, kept for Unwrap and debugging.
	driverErr error
}

// Error satisfies the built-in error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode converts a SQLSTATE code into our Code enum.
//
// Unrecognized states map to Other rather than failing.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

// MapSeverity converts the server-reported severity string into our enum.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	default:
		return SeverityOther
	}
}
