package loader

import "fmt"

// MissingFileError reports that a required export file is absent from the
// data directory. The message is user-facing and names the missing file.
type MissingFileError struct {
	Name string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("could not find %s in the uploaded data. Please make sure you uploaded a valid Archive.org listening history export.", e.Name)
}

// ParseError reports that an export file exists but does not match the
// expected schema.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
