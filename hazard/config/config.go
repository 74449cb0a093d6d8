package config

import "fmt"

// Config holds hazard solver and stripping parameters.
type Config struct {
	// Frequency is the number of premium payments per year (4 = quarterly).
	// It also fixes the survival and discount grid spacing.
	Frequency int `mapstructure:"frequency"`

	// ConvergenceTolerance is the absolute tolerance on the premium minus
	// protection PV residual (unit notional).
	ConvergenceTolerance float64 `mapstructure:"convergence_tolerance"`

	// MaxIterations bounds the Newton/bisection iterations per tenor.
	MaxIterations int `mapstructure:"max_iterations"`

	// MaxBracketExpansions bounds the doubling search for an upper hazard
	// bracket before the solve is declared unbracketed.
	MaxBracketExpansions int `mapstructure:"max_bracket_expansions"`

	// InitialGuess seeds Newton when positive. When zero the credit-triangle
	// estimate spread/(1-recovery) is used.
	InitialGuess float64 `mapstructure:"initial_guess"`

	// DerivativeThreshold is the minimum |dF/dh| for a Newton step. Below it
	// the iteration falls back to bisection.
	DerivativeThreshold float64 `mapstructure:"derivative_threshold"`
}

// DefaultConfig provides production defaults.
var DefaultConfig = Config{
	Frequency:            4,
	ConvergenceTolerance: 1e-12,
	MaxIterations:        100,
	MaxBracketExpansions: 60,
	InitialGuess:         0,
	DerivativeThreshold:  1e-15,
}

// Validate rejects parameter sets the solver cannot run with.
func (c Config) Validate() error {
	if c.Frequency <= 0 {
		return fmt.Errorf("hazard config: frequency must be positive, got %d", c.Frequency)
	}
	if c.ConvergenceTolerance <= 0 {
		return fmt.Errorf("hazard config: convergence_tolerance must be positive, got %g", c.ConvergenceTolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("hazard config: max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.MaxBracketExpansions <= 0 {
		return fmt.Errorf("hazard config: max_bracket_expansions must be positive, got %d", c.MaxBracketExpansions)
	}
	if c.InitialGuess < 0 {
		return fmt.Errorf("hazard config: initial_guess must not be negative, got %g", c.InitialGuess)
	}
	return nil
}
