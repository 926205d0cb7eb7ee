// Package command defines the serial command model and its parser.
package command

// A command frame is an ASCII line of the form VERB or "VERB arg1[,arg2...]".
// The verb set is closed and case-sensitive. Parsing is pure recursive
// descent over the frame bytes: primitives consume input left-to-right and
// the first failing primitive aborts the parse with the earliest failure
// offset. Once a verb matches, errors are reported against that verb's
// argument grammar, never reinterpreted as a different verb. A frame must
// parse completely: leftover bytes after the arguments are an error.
//
// The parser performs no I/O and allocates nothing; a Command holds only
// fixed-size validated fields.
