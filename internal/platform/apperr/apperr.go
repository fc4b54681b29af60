package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type Code string

const (
	CodeValidation           Code = "VALIDATION"
	CodeNotFound             Code = "NOT_FOUND"
	CodeReference            Code = "REFERENCE"
	CodeUnsupportedFrequency Code = "UNSUPPORTED_FREQUENCY"
	CodeInUse                Code = "IN_USE"
	CodeInternal             Code = "INTERNAL"
)

// Error es el error tipado que cruza las capas (dominio -> handlers).
// Fields solo se usa en errores de validación: campo -> inválido.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]bool
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.Fields) > 0 {
		msg += " (" + strings.Join(e.FieldNames(), ",") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is compara por código, así errors.Is(err, ErrInUse) funciona con instancias envueltas.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// FieldNames devuelve los campos marcados, ordenados.
func (e *Error) FieldNames() []string {
	out := make([]string, 0, len(e.Fields))
	for k, bad := range e.Fields {
		if bad {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

var (
	ErrValidation           = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "not found"}
	ErrReference            = &Error{Code: CodeReference, Message: "broken reference"}
	ErrUnsupportedFrequency = &Error{Code: CodeUnsupportedFrequency, Message: "unsupported frequency"}
	ErrInUse                = &Error{Code: CodeInUse, Message: "in use"}
	ErrInternal             = &Error{Code: CodeInternal, Message: "internal error"}
)

func New(code Code, message string, cause ...error) *Error {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &Error{Code: code, Message: message, Cause: c}
}

func NotFound(what, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", what, id)}
}

func Reference(format string, args ...any) *Error {
	return &Error{Code: CodeReference, Message: fmt.Sprintf(format, args...)}
}

func InUse(what, id string) *Error {
	return &Error{Code: CodeInUse, Message: fmt.Sprintf("%s %q is still referenced", what, id)}
}

// Fields acumula flags de validación por campo.
type Fields map[string]bool

func (f Fields) Flag(field string) { f[field] = true }

func (f Fields) Check(field string, ok bool) {
	if !ok {
		f[field] = true
	}
}

// Err devuelve nil si no hay campos inválidos.
func (f Fields) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: map[string]bool(f)}
}

func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeUnsupportedFrequency:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInUse:
		return http.StatusConflict
	case CodeReference:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Response es el cuerpo JSON de error que devuelven los handlers.
type Response struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// ToResponse no expone la causa de errores internos.
func ToResponse(err error) Response {
	var e *Error
	if !errors.As(err, &e) || e.Code == CodeInternal {
		return Response{Code: CodeInternal, Message: "internal error"}
	}
	return Response{Code: e.Code, Message: e.Message, Fields: e.FieldNames()}
}
