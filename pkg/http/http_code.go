package http

var (
	// Unauthorized 401
	Unauthorized  = failed(4401, "Unauthorized")
	InvalidToken  = failed(4405, "Invalid token")
	TokenBeEmpty  = failed(4406, "Token cannot be empty")
	TokenExpired  = failed(4407, "Token is expired")
	TokenRejected = failed(4409, "Invitation token rejected")

	// BadRequest 400
	BadRequest                    = failed(4000, "Bad request")
	RequestParameterParsingFailed = failed(4001, "Request parameter parsing failed")
	ValidationFailed              = failed(4002, "Validation failed")
	NotFound                      = failed(4004, "Not found")

	// Forbidden 403
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")

	// Conflict 409
	StateConflict    = failed(4090, "Operation not allowed in the current deal state")
	CapacityConflict = failed(4091, "Capacity limit reached")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

func failed(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}
