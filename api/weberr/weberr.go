// Package weberr decorates errors with the HTTP response they should
// produce and with structured fields for the error log. Handlers return
// plain errors; the Errors middleware unwraps these decorations.
package weberr

type Opt func(error) error

// Wrap applies decorations to an error, innermost first.
func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse attaches the body and status the client should receive.
func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

// WithFields attaches key/value pairs for the error log line.
func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}
