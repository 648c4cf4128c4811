// Package ast defines the tagged-variant AST used by the obfuscation
// pipeline, plus the side-effect-free helpers (construction, cloning,
// block-body access, identifier classification) shared by every pass. See
// SPEC_FULL.md component A.
package ast
