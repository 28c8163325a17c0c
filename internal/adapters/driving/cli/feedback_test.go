package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackCmd_RequiresRatingFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"feedback", "interaction-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "specify --positive or --negative")
}

func TestFeedbackCmd_RecordsPositive(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"feedback", "--positive", "interaction-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		feedbackPositive = false
		feedbackCmd.Flags().Lookup("positive").Changed = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Recorded positive feedback.")

	mock := answerService.(*mockAnswerService)
	assert.Equal(t, "interaction-1", mock.feedbackID)
	assert.True(t, mock.feedbackPositive)
}

func TestFeedbackCmd_RecordsNegative(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"feedback", "--negative", "interaction-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		feedbackNegative = false
		feedbackCmd.Flags().Lookup("negative").Changed = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Recorded negative feedback.")
	assert.False(t, answerService.(*mockAnswerService).feedbackPositive)
}

func TestFeedbackCmd_ServiceError(t *testing.T) {
	oldService := answerService
	answerService = &mockAnswerService{err: errMockFailure}
	defer func() {
		answerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"feedback", "--positive", "interaction-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		feedbackPositive = false
		feedbackCmd.Flags().Lookup("positive").Changed = false
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "feedback failed")
}
