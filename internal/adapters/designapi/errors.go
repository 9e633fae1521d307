package designapi

import (
	"fmt"

	"github.com/example/crispr/internal/ports/secondary"
)

// TransportError reports a request that never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Kind returns secondary.ErrorKindTransport.
func (e *TransportError) Kind() string { return secondary.ErrorKindTransport }

// ServiceError reports a non-success status from the design service.
type ServiceError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: service returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: service returned %d: %s", e.Op, e.StatusCode, e.Detail)
}

// Kind returns secondary.ErrorKindService.
func (e *ServiceError) Kind() string { return secondary.ErrorKindService }

// ContractViolationError reports a response body that does not match the schema
// (kind ServiceContractViolation).
type ContractViolationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ContractViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: service contract violation: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: service contract violation: %s", e.Op, e.Reason)
}

func (e *ContractViolationError) Unwrap() error { return e.Err }

// Kind returns secondary.ErrorKindContract.
func (e *ContractViolationError) Kind() string { return secondary.ErrorKindContract }

var (
	_ secondary.KindedError = (*TransportError)(nil)
	_ secondary.KindedError = (*ServiceError)(nil)
	_ secondary.KindedError = (*ContractViolationError)(nil)
)
