package inout

import "errors"

var (
	ErrNoSource  = errors.New("no source set on the handler")
	ErrNoStorage = errors.New("no storage set on the output")
)
