package core

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("plain")))
	err := Error(EMISSING, "font not found: %s", "fonts/x.otf")
	assert.Equal(t, EMISSING, Code(err))
	assert.Equal(t, "font not found: fonts/x.otf", UserMessage(err))
	assert.Equal(t, "[122] font not found: fonts/x.otf: not found", err.Error())
	// codes survive wrapping by other packages
	wrapped := fmt.Errorf("loading: %w", err)
	assert.Equal(t, EMISSING, Code(wrapped))
	assert.Equal(t, "font not found: fonts/x.otf", UserMessage(wrapped))
}

func TestWrapError(t *testing.T) {
	err := WrapError(os.ErrNotExist, EIO, "cannot write %s", "out.tex")
	assert.Equal(t, EIO, Code(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "cannot write out.tex", UserMessage(err))
	//
	err = WrapError(nil, EINVALID, "bad font")
	assert.Equal(t, "[123] bad font: invalid", err.Error())
	err = ErrorWithCode(nil, EUSAGE)
	assert.Equal(t, EUSAGE, Code(err))
	assert.Equal(t, "[2] usage error", err.Error())
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "internal error", UserMessage(errors.New("plain")))
}
