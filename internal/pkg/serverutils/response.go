package serverutils

// Response is the uniform envelope for every API reply.
type Response[T any] struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response[any] {
	return Response[any]{
		Code:    code,
		Message: message,
	}
}

func ErrorResponseWithDetails(code int, message string, details map[string]string) Response[any] {
	return Response[any]{
		Code:    code,
		Message: message,
		Details: details,
	}
}
