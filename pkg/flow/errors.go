package flow

import (
	"errors"

	aerrors "github.com/vango-dev/anchor/internal/errors"
)

// ErrMissingRender is returned when For or Index is built without a Children
// function.
var ErrMissingRender = errors.New("flow: missing render function")

func missingRender(primitive string) error {
	return aerrors.New("E020").
		WithDetailf("%s was constructed without a Children function", primitive).
		Wrap(ErrMissingRender)
}
