package errors

// Body is the JSON error envelope every non-2xx backend response carries.
type Body struct {
	Error string `json:"error"`
}

// HTTPResponse converts an error into the status and body a handler writes.
func HTTPResponse(err error) (int, Body) {
	if err == nil {
		return CodeOK.HTTPStatus(), Body{}
	}
	return GetCode(err).HTTPStatus(), Body{Error: GetMessage(err)}
}

// FromHTTPStatus builds an error from a failed backend response.
func FromHTTPStatus(status int, message string) *Error {
	if message == "" {
		message = "request failed"
	}
	return New(CodeFromHTTPStatus(status), message).WithMeta("http_status", status)
}
