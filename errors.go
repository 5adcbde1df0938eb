package cubestate

import (
	"github.com/SeamusWaldron/cubestate/internal/cube"
	"github.com/SeamusWaldron/cubestate/internal/movetable"
	"github.com/SeamusWaldron/cubestate/internal/notation"
)

// Sentinel errors for the cubestate package. Match them with errors.Is.
var (
	// Notation errors
	ErrInvalidNotation = notation.ErrInvalidNotation

	// State errors
	ErrInvalidState      = cube.ErrInvalidState
	ErrInvalidMove       = cube.ErrInvalidMove
	ErrUnknownMove       = cube.ErrUnknownMove
	ErrUnknownVariant    = cube.ErrUnknownVariant
	ErrFamilyUnavailable = cube.ErrFamilyUnavailable

	// Table errors
	ErrTableMissing = movetable.ErrTableMissing
	ErrOutOfRange   = movetable.ErrOutOfRange
	ErrInconsistent = movetable.ErrInconsistent
	ErrMemoryBudget = movetable.ErrMemoryBudget
)
