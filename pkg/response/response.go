package response

import "sanogestion/pkg/pagination"

// Status values carried by every response so the boundary layer can
// tell the outcomes apart.
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusInvalid         = "invalid"
	StatusNotFound        = "not_found"
	StatusForbidden       = "forbidden"
	StatusUnauthenticated = "unauthenticated"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message,omitempty"`
	Redirect   string      `json:"redirect,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     StatusSuccess,
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: statusCode,
		Error:      err,
	}
}

// Result builds a structured outcome {status, message, redirect}.
func Result(status string, statusCode int, message, redirect string) Response {
	return Response{
		Status:     status,
		StatusCode: statusCode,
		Message:    message,
		Redirect:   redirect,
	}
}

func (r Response) WithMessage(message string) Response {
	r.Message = message
	return r
}

func (r Response) WithRedirect(target string) Response {
	r.Redirect = target
	return r
}

// Page is the data payload of a paginated listing.
type Page struct {
	Items      interface{}     `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

func SuccessWithPagination(statusCode int, items interface{}, meta pagination.Meta) Response {
	return Success(statusCode, Page{Items: items, Pagination: meta})
}
