package command

import "fmt"

// Code classifies why a frame failed to parse.
type Code int

const (
	// CodeVerb means the leading keyword is not a known verb.
	CodeVerb Code = iota
	// CodeArg means an argument is missing or malformed.
	CodeArg
	// CodeRange means a numeric argument is outside its documented range.
	CodeRange
	// CodeTrail means bytes remained after a fully parsed command.
	CodeTrail
)

var codeNames = [...]string{"VERB", "ARG", "RANGE", "TRAIL"}

// String returns the stable diagnostic code reported to the host.
func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "PARSE"
}

// Error is a structured parse failure. It carries no frame data, only
// the failure class and the byte offset where parsing stopped.
type Error struct {
	Code   Code
	Offset int
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error %s at offset %d", e.Code, e.Offset)
}

func errAt(code Code, offset int) *Error {
	return &Error{Code: code, Offset: offset}
}
