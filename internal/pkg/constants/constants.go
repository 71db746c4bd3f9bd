package constants

import "net/http"

// Viper keys.
const (
	ViperKeyHTTPAddr      = "http_addr"
	ViperKeyDatabaseDSN   = "database_dsn"
	ViperKeyMetricsPort   = "metrics_port"
	ViperKeyReportsURL    = "reports_url"
	ViperKeyReportsDir    = "reports_dir"
	ViperKeyCSVDir        = "csv_dir"
	ViperKeyLayoutCatalog = "layout_catalog"
	ViperSecretKey        = "admin_secret"
)

const CookieKeySecretToken = "secret_token"

// CodedError carries the HTTP status the API error handler should answer
// with. Everything else maps to 500.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string { return e.msg }
func (e *CodedError) Code() int     { return e.code }

var (
	ErrDBNotFound   = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrBadRequest   = NewCodedError("bad request", http.StatusBadRequest)
)
