// Package vm implements the segment object model.
//
// This package contains:
//   - the tagged Object representation with immediate integers, floats,
//     strings and symbols
//   - heap buffers and slotted instances
//   - classes and the bootstrap of the self-describing Class class
//   - the symbol table
//   - value and identity dictionaries
//
// All state lives in a Runtime. Runtimes are independent of each other and
// are not safe for concurrent use.
package vm
