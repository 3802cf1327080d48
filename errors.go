package sdfstore

import (
	"errors"

	"github.com/hupe1980/sdfstore/source"
)

var (
	// ErrNotFound is returned when a queried identifier is absent from every
	// index. Absence is a normal outcome; callers test with errors.Is.
	ErrNotFound = errors.New("sdfstore: not found")

	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("sdfstore: store is closed")

	// ErrSourceUnavailable is returned by Open when the source file does not
	// exist and the provider could not produce it.
	ErrSourceUnavailable = source.ErrUnavailable
)
