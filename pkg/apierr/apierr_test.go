package apierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_MapsTaxonomyToHTTPCodes(t *testing.T) {
	assert.Equal(t, 400, Status(&ValidationError{Field: "age", Msg: "must be positive"}))
	assert.Equal(t, 500, Status(&FatalConfig{Component: "repository", Reason: "missing SQLITE_PATH"}))
	assert.Equal(t, 500, Status(errors.New("unclassified")))
}

func TestAgentError_UnwrapsToCauseAndTagsSafetyAlert(t *testing.T) {
	cause := errors.New("timed out")
	err := &AgentError{AgentID: "cardiology", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "AGENT_ERROR:cardiology", err.SafetyAlertTag())
}
