// Package lugha implements an interpreter for Lugha, a small dynamically
// typed scripting language whose keywords are Swahili: shughuli defines a
// function, kama/sivyo branch, kwa and wakati loop, andika prints.
//
// The package contains the whole pipeline: Tokenize lexes a source, Parse
// builds a syntax tree, and an Interp walks the tree to a Value or a
// RuntimeError carrying the source span and a traceback. Evaluation is
// single-threaded and synchronous; a given Interp must not be shared
// between goroutines, and distinct Interps share nothing.
//
// The simplest use is:
//
//	in := lugha.New(nil)
//	v, err := in.RunString(`2 + 3 * 4`, "hesabu")
//
// Builtins perform their I/O through the Host interface, so embedders can
// redirect the language's print and read operations without touching the
// evaluator.
package lugha
