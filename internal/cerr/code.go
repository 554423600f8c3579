package cerr

import "net/http"

type Code int

const (
	OK              = Code(0)
	InvalidArgument = Code(3)
	NotFound        = Code(5)
	AlreadyExists   = Code(6)
	Internal        = Code(13)
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case InvalidArgument:
		return "InvalidArgument"
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

func (c Code) HTTPCode() int {
	switch c {
	case OK:
		return http.StatusOK
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
