package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Device errors
	ErrNotTerminal = errors.New(f("not a terminal"))
)
