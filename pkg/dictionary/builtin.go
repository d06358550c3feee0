package dictionary

import (
	"bytes"
	_ "embed"
)

//go:embed builtin.dict
var builtinDict []byte

// Builtin returns a dictionary preloaded with the embedded lexicon.
func Builtin(window int) (*Dictionary, error) {
	d := New(window)
	if _, err := d.LoadText(bytes.NewReader(builtinDict)); err != nil {
		return nil, err
	}
	return d, nil
}
