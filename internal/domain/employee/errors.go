package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrEmployeeInactive        = errors.New("employee is inactive")
	ErrEmployeeOutOfScope      = errors.New("employee is outside your assigned branches")
	ErrUnknownBranch           = errors.New("one or more branch ids do not exist")
)
