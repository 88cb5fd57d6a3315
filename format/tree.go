package format

import (
	"io"

	"github.com/dhamidi/tjc/java/compile"
)

// TreeEncoder writes the indented node outline produced by Arena.Dump.
type TreeEncoder struct {
	w io.Writer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(result *compile.Result) error {
	text, err := e.Marshal(result)
	return write(e.w, text, err)
}

func (e *TreeEncoder) Marshal(result *compile.Result) ([]byte, error) {
	if result == nil || result.Arena == nil {
		return nil, nil
	}
	return []byte(result.Arena.Dump(result.Root)), nil
}
