// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr provides the core errors catalog. Each Error carries
// a short code, a symbolic kind, and a human-readable message which is
// rendered from a fixed template by substituting its only placeholder.
// Errors are returned as values and may be reported to end-users as
// they are (e.g., encoded as JSON) or mapped to HTTP status codes by
// the restful adapters.
package cerr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Code identifies one of the known error conditions.
type Code string

// These constants list the known error codes.
const (
	CodeFileNotFound          Code = "01"
	CodeMandatoryFieldMissing Code = "02"
	CodeInvalidValue          Code = "03"
	CodeError                 Code = "04"
	CodeInvalidFileType       Code = "05"
	CodeInvalidJSONRecord     Code = "06"
)

// placeholder is replaced by the error details in message templates.
const placeholder = "<placeholder>"

type entry struct {
	kind     string
	template string
	status   int
}

var catalog = map[Code]entry{
	CodeFileNotFound: {
		kind: "FileNotFound",
		template: "The file '<placeholder>' not found. Please check if " +
			"you have specified the correct file name and path. " +
			"Please make sure the file exists at the specified path.",
		status: http.StatusInternalServerError,
	},
	CodeMandatoryFieldMissing: {
		kind:     "MandatoryFieldMissing",
		template: "The field '<placeholder>' is missing. ",
		status:   http.StatusBadRequest,
	},
	CodeInvalidValue: {
		kind: "InvalidValue",
		template: "The value for '<placeholder>' is invalid. This field " +
			"must be a valid number. Please check if the field is not " +
			"empty in any of the records.",
		status: http.StatusBadRequest,
	},
	CodeError: {
		kind:     "Error",
		template: "An error has occurred. Details: <placeholder>",
		status:   http.StatusInternalServerError,
	},
	CodeInvalidFileType: {
		kind: "InvalidFileType",
		template: "The data file <placeholder> must be a .txt file " +
			"with JSON entries for the data",
		status: http.StatusInternalServerError,
	},
	CodeInvalidJSONRecord: {
		kind: "InvalidJSONRecord",
		template: "The data file <placeholder> contains invalid JSON " +
			"record(s). Please check if all the entries form a valid " +
			"JSON object.",
		status: http.StatusInternalServerError,
	},
}

// Error is an immutable error value. Its exported fields are encoded
// with the Code, Error, and Message JSON keys.
type Error struct {
	Code    Code   `json:"Code" yaml:"code"`
	Kind    string `json:"Error" yaml:"error"`
	Message string `json:"Message" yaml:"message"`
}

// New creates an Error for the given code, substituting the `detail`
// in its message template. Unknown codes are kept, but take the kind
// and template of the generic CodeError. New never fails.
func New(code Code, detail string) *Error {
	e, ok := catalog[code]
	if !ok {
		e = catalog[CodeError]
	}
	return &Error{
		Code:    code,
		Kind:    e.kind,
		Message: strings.Replace(e.template, placeholder, detail, 1),
	}
}

// FileNotFound reports that the `path` file does not exist or could not
// be loaded.
func FileNotFound(path string) *Error {
	return New(CodeFileNotFound, path)
}

// MandatoryFieldMissing reports that the `field` is required, but
// it was not provided.
func MandatoryFieldMissing(field string) *Error {
	return New(CodeMandatoryFieldMissing, field)
}

// InvalidValue reports that the `field` value is not a valid number.
func InvalidValue(field string) *Error {
	return New(CodeInvalidValue, field)
}

// Unexpected reports an unexpected failure, such as a data source read
// error, using the `err` message as details.
func Unexpected(err error) *Error {
	if err == nil {
		return New(CodeError, "unknown")
	}
	return New(CodeError, err.Error())
}

// InvalidFileType reports that the `name` data file is not a .txt file.
func InvalidFileType(name string) *Error {
	return New(CodeInvalidFileType, name)
}

// InvalidJSONRecord reports that the `path` data file contains a record
// which is not a valid JSON object.
func InvalidJSONRecord(path string) *Error {
	return New(CodeInvalidJSONRecord, path)
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Kind, e.Message)
}

// Is reports whether `target` is an *Error with the same code as `e`,
// so errors.Is(err, cerr.New(cerr.CodeInvalidValue, "")) can match any
// invalid value error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// HTTPStatusCode returns the HTTP status code which should be used when
// `e` is reported as the response of a REST API. Configuration and data
// source problems are server-side errors, while invalid or missing
// values may be caused by request parameters.
func (e *Error) HTTPStatusCode() int {
	if ent, ok := catalog[e.Code]; ok {
		return ent.status
	}
	return http.StatusInternalServerError
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", string(e.Code)),
		slog.String("error", e.Kind),
		slog.String("message", e.Message),
	)
}

// CodeOf returns the code of the *Error which is wrapped by `err`.
// If `err` does not wrap an *Error, CodeError is returned.
// A nil `err` has an empty code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeError
}
