package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedMIMETypes(t *testing.T) {
	extractor := New()
	mimeTypes := extractor.SupportedMIMETypes()

	require.NotEmpty(t, mimeTypes)
	assert.Contains(t, mimeTypes, "application/pdf")
	assert.Len(t, mimeTypes, 1)
}

func TestExtract_EmptyBlob(t *testing.T) {
	extractor := New()

	text, err := extractor.Extract(context.Background(), nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, text)
}

func TestExtract_Success(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{output: []byte("CPAP water chamber code is E0562\n")})

	text, err := extractor.Extract(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Contains(t, text, "E0562")
}

func TestExtract_CommandFailure(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{err: errors.New("exit status 1")})

	text, err := extractor.Extract(context.Background(), []byte("%PDF-1.4 corrupt"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Empty(t, text)
}
