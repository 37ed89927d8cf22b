package pipeline

import "fmt"

// ConfigError reports a configuration or archive-layout problem found
// before processing starts. It is the only fatal error class: nothing
// has been touched when it is returned.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// EntryError reports a single manifest entry that could not be
// processed, for example because a referenced source file is missing.
// The batch continues past it.
type EntryError struct {
	Source string
	Err    error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %s: %v", e.Source, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// ConversionError reports a decode or encode failure for one file.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MetadataError reports an embedding failure. The output file exists
// and stays in place; only its metadata is incomplete.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata %s: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// FilesystemError reports a copy, move or delete failure during the
// run or its cleanup phase.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
