package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoojob/internal/models"
)

func TestDecodeApplication(t *testing.T) {
	ev := models.ApplicationEvent{
		Type:          models.EventApplicationCreated,
		ApplicationID: "a1",
		JobID:         "j1",
		JobTitle:      "Développeur Go",
		RecruiterID:   "r1",
		CandidateID:   "c1",
		Status:        models.StatusPending,
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)

	got, err := DecodeApplication(map[string]any{"type": ev.Type, "payload": string(b)})
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = DecodeApplication(map[string]any{})
	assert.Error(t, err)
}

func TestUserMessagesChannel(t *testing.T) {
	assert.Equal(t, "user:42:messages", UserMessagesChannel("42"))
}
