package models

import "errors"

var (
	// ErrNotFound means the requested album code has no record in the store.
	ErrNotFound = errors.New("album not found")

	// ErrUpstreamInvalid means the file-hosting API answered without a
	// usable file path.
	ErrUpstreamInvalid = errors.New("invalid file metadata from upstream")

	// ErrProxyFailure means a network or decoding failure while resolving
	// or streaming a proxied file.
	ErrProxyFailure = errors.New("proxy failure")

	// ErrDataCorrupted means a record present in the listing yielded no
	// parsable JSON when fetched directly.
	ErrDataCorrupted = errors.New("album data corrupted")
)
