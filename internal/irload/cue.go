package irload

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource []byte

// ParseCUE compiles a CUE document, unifies it with #Document and decodes
// the result.
func ParseCUE(path string, data []byte) (*Document, error) {
	cctx := cuecontext.New()
	schema := cctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}

	value := cctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeParse, path, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Document")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, path, err)
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, cueError(ErrCodeSchema, path, err)
	}
	if err := validateDocument(&doc); err != nil {
		return nil, withFile(err, path)
	}
	return &doc, nil
}

// LoadCUE parses and builds a CUE document.
func LoadCUE(path string, data []byte) (*Loaded, error) {
	doc, err := ParseCUE(path, data)
	if err != nil {
		return nil, err
	}
	return Build(doc, path)
}

// cueError keeps the first CUE error and its position.
func cueError(code, path string, err error) *LoadError {
	le := &LoadError{Code: code, File: path, Message: err.Error(), Err: err}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	for _, pos := range cueerrors.Positions(first) {
		if pos.Filename() == path {
			le.Line, le.Column = pos.Line(), pos.Column()
			break
		}
	}
	return le
}
