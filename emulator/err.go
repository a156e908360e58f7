package emulator

import (
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Name   string // Program name.
	Pc     int    // Program counter at the failure.
	LineNo int    // Source line, if the program was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("%v:%d: %v", err.Name, err.LineNo, err.Err)
	}
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
