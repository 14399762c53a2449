// Package verifier checks that an IR tree is structurally sound and obeys
// SSA dominance.
//
// Verification runs in two phases over each isolation scope:
//
//  1. Structural pass. An explicit worklist visits every operation and block
//     twice, on entrance and on exit, checking operands, attributes, hooks,
//     terminators, region kinds and the unregistered-operation policy.
//  2. Dominance pass. Only if the structural pass succeeded, a fresh
//     dominance oracle is built and every operand in a reachable block must
//     be properly dominated by its definition.
//
// Operations that are isolated from above are skipped by their parent's
// walks. When the parent exits, each of them is verified as an independent
// scope, possibly in parallel.
//
// Every check is fail-fast: the first violation in a scope emits one
// diagnostic and stops that scope. Diagnostics go to a diag.Sink; Verify
// only reports pass or fail.
package verifier
