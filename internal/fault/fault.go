// Package fault holds the error values shared by the upload pipeline so callers
// can match them with errors.Is.
package fault

type InvalidError string
type NotFoundError string
type ProcessError string

var (
	ErrInvalidConfig        = InvalidError("invalid configuration")
	ErrFileTooLarge         = InvalidError("file exceeds maximum size")
	ErrFileNotFound         = NotFoundError("file not found")
	ErrChallengeFetchFailed = ProcessError("challenge fetch failed")
	ErrUploadFailed         = ProcessError("upload failed")
)

func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
