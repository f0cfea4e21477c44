package response

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500

	// Business codes for the revenue flows.
	CodeDateNotEditable  = 2001
	CodeDuplicateInBatch = 2002
	CodeNoFxRate         = 2003
	CodeInvalidStatus    = 2004
	CodeRangeNotBillable = 2005
)
