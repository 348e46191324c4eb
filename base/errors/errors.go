// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors logs errors that must not stop a running app, such as
// a controller that fails to attach. It re-exports the standard
// library functions used in this module so that packages import a
// single errors package.
package errors

import (
	"errors"
	"log/slog"
	"runtime"
	"strconv"
)

// Log logs err with the location of its caller if it is non-nil,
// and returns it:
//
//	errors.Log(c.Dispose())
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error(), "caller", callerInfo(2))
	}
	return err
}

// Log1 is [Log] for functions that return a value and an error.
// It returns the value, which is typically the zero value on error:
//
//	abs := errors.Log1(filepath.Abs(path))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error(), "caller", callerInfo(2))
	}
	return v
}

// Must panics if err is non-nil. It is for errors that can only
// come from a programming mistake.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// callerInfo returns the function and file position skip frames up.
func callerInfo(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "?"
	}
	name := "?"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return name + " " + file + ":" + strconv.Itoa(line)
}

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// As is [errors.As].
func As(err error, target any) bool { return errors.As(err, target) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
