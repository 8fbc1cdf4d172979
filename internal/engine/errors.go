package engine

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/arcade-motion/internal/core"
)

var (
	ErrDegenerateShape  = errors.New("engine: degenerate shape")
	ErrInvalidPolicy    = errors.New("engine: invalid boundary policy")
	ErrNonFinite        = errors.New("engine: non-finite value")
	ErrUnknownKind      = errors.New("engine: unknown entity kind")
	ErrUnknownEntity    = errors.New("engine: unknown entity")
	ErrUnregisteredPair = errors.New("engine: unsupported collision pair")
	ErrTerrain          = errors.New("engine: invalid terrain")
)

// ConfigError reports an entity or world that cannot be built as requested.
// Nothing is added to the world when it is returned.
type ConfigError struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Kind == 0 {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%v (kind %s)", e.Err, e.Kind)
	}
	return fmt.Sprintf("%v (kind %s): %s", e.Err, e.Kind, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IntegrationError reports an entity whose motion produced NaN or an
// infinite value. The tick that produced it is aborted.
type IntegrationError struct {
	ID   ID
	Kind Kind
	Pos  core.Vec
	Vel  core.Vec
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("%v: entity %d (%s) pos=%v vel=%v", ErrNonFinite, e.ID, e.Kind, e.Pos, e.Vel)
}

func (e *IntegrationError) Unwrap() error { return ErrNonFinite }

// ContractError reports a collision pair the engine has no rule for.
type ContractError struct {
	A, B Kind
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: %s x %s", ErrUnregisteredPair, e.A, e.B)
}

func (e *ContractError) Unwrap() error { return ErrUnregisteredPair }
