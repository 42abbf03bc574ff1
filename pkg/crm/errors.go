package crm

import "errors"

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrConflict         = errors.New("customer was modified concurrently")
	ErrInvalidCustomer  = errors.New("invalid customer")
)
