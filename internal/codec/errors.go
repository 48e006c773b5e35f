package codec

import "fmt"

// UnsupportedFormatError is returned for a file extension or format name
// with no codec, or for an operation a codec does not implement.
type UnsupportedFormatError struct {
	Format string
	Op     string // "decode", "encode" or "" for an unknown format
}

func (e *UnsupportedFormatError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("unsupported image format %q", e.Format)
	}
	return fmt.Sprintf("%s is not supported for %s", e.Op, e.Format)
}
