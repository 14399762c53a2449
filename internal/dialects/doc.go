// Package dialects provides the operation registries the tools verify
// against.
//
// Each dialect registers OpInfo values built from a declarative Spec: trait
// flags, operand/result/region/successor counts, region kinds and required
// attributes. A Spec turns counts and attributes into an invariant hook, so
// the verifier sees them as ordinary hook failures.
//
// Dialects:
//   - builtin: the module container.
//   - func: functions, calls and returns.
//   - cf: unstructured branches.
//   - arith: constants and integer addition.
//   - test: hooks and traits for exercising the verifier. Allows unknown ops.
package dialects
