package resources

import "errors"

var (
	ErrResourceAlreadyCreated = errors.New("resource already created")
	ErrResourceNotCreated     = errors.New("resource has no id yet")
	ErrClientNotSet           = errors.New("resource is not bound to a client")
	ErrTaskListNotSpecified   = errors.New("task list not specified")
	ErrTaskNotSpecified       = errors.New("task not specified")
	ErrUnsupportedOperation   = errors.New("unsupported operation")
)
