package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

func TestDocumentsListCmd_PrintsDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentService.(*mockDocumentService).docs = []domain.Document{
		{ID: "doc-1", Name: "policy.pdf", Status: domain.DocumentStatusIndexed, UploadedAt: testUploadedAt},
		{ID: "doc-2", Name: "broken.pdf", Status: domain.DocumentStatusFailed, FailureReason: "no extractable text", UploadedAt: testUploadedAt},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"documents", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[indexed]  policy.pdf")
	assert.Contains(t, out, "[failed]  broken.pdf (no extractable text)")
	assert.Contains(t, out, "id: doc-1")
}

func TestDocumentsListCmd_EmptyStore(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"documents", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No documents indexed")
}

func TestDocumentsDeleteAllCmd_RequiresForce(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"documents", "delete-all"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.False(t, documentService.(*mockDocumentService).deleted)
}

func TestDocumentsDeleteAllCmd_DeletesWithForce(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentService.(*mockDocumentService).docs = []domain.Document{
		{ID: "doc-1", Name: "policy.pdf", Status: domain.DocumentStatusIndexed},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"documents", "delete-all", "--force"})
	defer func() {
		rootCmd.SetArgs(nil)
		deleteAllForce = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted 1 documents.")
	assert.True(t, documentService.(*mockDocumentService).deleted)
}
