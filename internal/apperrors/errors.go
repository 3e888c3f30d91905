package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidAmount indicates a non-positive or malformed monetary amount.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrInsufficientFunds indicates a withdrawal or transfer exceeding the account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidRange indicates a history query whose end precedes its start.
var ErrInvalidRange = errors.New("invalid time range: to precedes from")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
