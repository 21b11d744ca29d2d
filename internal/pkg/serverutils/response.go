package serverutils

// Response is the success envelope: {data: ..., message?: ...}
type Response[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// ErrorBody is the failure envelope: {error: ...}
type ErrorBody struct {
	Error string `json:"error"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{Message: message, Data: data}
}

// DataResponse is SuccessResponse without a message.
func DataResponse[T any](data T) Response[T] {
	return Response[T]{Data: data}
}

func ErrorResponse(message string) ErrorBody {
	return ErrorBody{Error: message}
}
