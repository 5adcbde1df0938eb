// Package cubestate provides the state-space machinery for Rubik's cube
// puzzles: explicit cubie states, their coordinates and move transition
// tables.
//
// # Features
//
//   - Explicit-form cube that applies face turns and algorithm notation
//   - Coordinates for corner and edge orientation and permutation
//   - Concurrent transition table builder with dense and computed tables
//   - Coordinate-form cube that steps through the tables only
//   - Standard 3x3x3 and corners-only (2x2x2) variants
//
// # Explicit Cube
//
//	cube := cubestate.NewCube()
//
//	// Apply moves using predefined constants
//	cube.Apply(cubestate.R, cubestate.U, cubestate.RPrime, cubestate.UPrime)
//
//	// Or from notation, including rotations, slices and wide moves
//	if err := cube.ApplyNotation("F B2 L' D M2 x"); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Solved:", cube.IsSolved())
//	fmt.Println("Coordinates:", cube.Coordinates())
//
// # Transition Tables
//
// Tables map a coordinate to its successor under one face turn:
//
//	tables, err := cubestate.BuildTables(ctx, cubestate.WithWorkers(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fast := cubestate.NewFastCube(tables)
//	fast.Apply(cubestate.TPerm...)
//	fmt.Println(fast.Coordinates())
//
// Families whose domain exceeds the dense limit (edge permutation by
// default) are computed on demand instead of stored.
//
// # Predefined Moves
//
//	cubestate.R      // Right clockwise
//	cubestate.RPrime // Right counter-clockwise
//	cubestate.R2     // Right 180
//	// ... and similarly for L, U, D, F, B
package cubestate
