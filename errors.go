package wpsio

import "errors"

var (
	ErrMissingIdentifier  = errors.New("missing process identifier")
	ErrUnknownDataType    = errors.New("unknown literal data type")
	ErrValueNotAllowed    = errors.New("value is not one of the allowed values")
	ErrFormatNotSupported = errors.New("format is not one of the supported formats")
	ErrNotKVPExecute      = errors.New("key-value pairs do not describe an execute request")
)
