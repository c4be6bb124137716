// Package errors provides standardized error messaging for the novac
// compilation pipeline. Every fatal failure surfaced by the preprocessor,
// AST builder, or IR generator is reported through a StandardError so the
// driver can format and exit consistently.
package errors

import (
	"fmt"
	"runtime"

	"github.com/novac-lang/novac/internal/position"
)

// ErrorCategory classifies which pipeline stage raised the error.
type ErrorCategory string

const (
	CategoryIO           ErrorCategory = "IO"
	CategoryPreprocessor ErrorCategory = "PREPROCESSOR"
	CategoryASTBuild     ErrorCategory = "ASTBUILD"
	CategoryIRGen        ErrorCategory = "IRGEN"
)

// StandardError is the single message-string error contract described in
// the driver collaborator interface: no structured error codes are exposed
// beyond Category/Code, and Pos may be the zero value when unavailable.
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Pos      position.Position
	Caller   string
}

func (e *StandardError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s:%s] %s", e.Pos.String(), e.Category, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

func newStandardError(category ErrorCategory, code, message string, pos position.Position) *StandardError {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}
	return &StandardError{Category: category, Code: code, Message: message, Pos: pos, Caller: caller}
}

// IOErrorf reports a fatal file-system error with the offending path already
// folded into the message (per §7.1: "reported with the offending path").
func IOErrorf(format string, args ...interface{}) *StandardError {
	return newStandardError(CategoryIO, "IO_ERROR", fmt.Sprintf(format, args...), position.Position{})
}

// PreprocessorErrorf reports an unbalanced conditional stack or other
// structural preprocessor error (§7.2).
func PreprocessorErrorf(pos position.Position, format string, args ...interface{}) *StandardError {
	return newStandardError(CategoryPreprocessor, "PP_STRUCTURAL", fmt.Sprintf(format, args...), pos)
}

// ASTBuildErrorf reports a structural AST-construction error that is not
// permissively degraded: a parse-tree node with fewer children than its kind
// requires, or a top-level or expression node of an unrecognised kind.
func ASTBuildErrorf(pos position.Position, format string, args ...interface{}) *StandardError {
	return newStandardError(CategoryASTBuild, "AST_STRUCTURAL", fmt.Sprintf(format, args...), pos)
}

// IRGenErrorf reports any of the fatal IR-generation errors enumerated in
// §7.4 (unknown identifier, invalid lvalue, bad dereference, break/continue
// outside a loop, bad call, verification failure, ...).
func IRGenErrorf(pos position.Position, code string, format string, args ...interface{}) *StandardError {
	return newStandardError(CategoryIRGen, code, fmt.Sprintf(format, args...), pos)
}
