package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Chain(t *testing.T) {
	cause := context.DeadlineExceeded
	err := fmt.Errorf("analyze: %w", Network(cause, "provider timed out"))

	assert.True(t, IsNetwork(err))
	assert.True(t, Retryable(err))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, CodeNetwork, Code(err))
	assert.Equal(t, "provider timed out", Message(err))
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestAppError_NestedCodes(t *testing.T) {
	inner := InvalidInput("bad settings")
	outer := Export(inner, "render failed")

	assert.True(t, IsExport(outer))
	assert.True(t, IsInvalidInput(outer), "expected inner code to be found")
	assert.False(t, Retryable(outer))
	assert.Equal(t, CodeExport, Code(outer))
}

func TestCode_Plain(t *testing.T) {
	assert.Equal(t, CodeInternal, Code(stderrors.New("boom")))
	assert.Equal(t, "boom", Message(stderrors.New("boom")))
	assert.Equal(t, "", Message(nil))
	assert.False(t, IsNotFound(nil))
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(CodeNetwork, nil, "x"))
	assert.Nil(t, Network(nil, "x"))

	err := Export(nil, "no renderer")
	assert.True(t, IsExport(err))
	assert.Equal(t, "no renderer", err.Error())
}

func TestConstructors(t *testing.T) {
	assert.True(t, IsConfiguration(Configuration("missing %s", "key")))
	assert.True(t, IsNotFound(NotFound("result %s", "abc")))
	assert.Equal(t, CodeUpstreamFormat, Code(UpstreamFormat("garbage")))
	assert.Equal(t, "result abc", NotFound("result %s", "abc").Error())
}
