package weberr

import "errors"

type responder interface {
	Response() (body any, status int)
}

// Response extracts the HTTP body and status attached to err, if any.
func Response(err error) (body any, status int, ok bool) {
	var re responder
	if errors.As(err, &re) {
		body, code := re.Response()
		return body, code, true
	}
	return nil, 0, false
}

type responseError struct {
	error
	body   any
	status int
}

func (e *responseError) Response() (any, int) {
	return e.body, e.status
}

func (e *responseError) Unwrap() error {
	return e.error
}
