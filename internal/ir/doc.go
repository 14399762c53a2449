// Package ir provides the operation/block/region data model that the
// verifier walks.
//
// This package contains the IR structures and the registry they resolve
// against. All other internal packages import ir; ir imports nothing internal
// except the parallel configuration carried on Context.
//
// Structure:
//   - An Operation holds operands, results, attributes, nested Regions and,
//     for terminators, successor Blocks.
//   - A Block is an ordered list of Operations plus its block arguments.
//   - A Region is an ordered list of Blocks owned by an Operation.
//   - A Value is either an Operation result or a Block argument.
//
// Key design constraints:
//   - Constructors do NOT enforce structural invariants. Transformations move
//     IR through locally invalid states and the verifier reports what is left
//     broken.
//   - Context is the only registry. Nothing is global.
//   - The verifier only reads the IR. Every mutator on these types is for
//     builders (irload, tests, transformations).
package ir
