package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse wraps a payload for a successful call.
func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// ListResponse is SuccessResponse with the number of returned items.
func ListResponse(data interface{}, results int) Response {
	return Response{
		Success: true,
		Results: &results,
		Data:    data,
	}
}

// ErrorResponse is the body of every failed call.
func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}
