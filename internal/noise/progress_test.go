package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTee(t *testing.T) {
	first := &EventLog{}
	second := &EventLog{}

	r := Tee(first, nil, second)
	r.Report(false, MessageSampling)
	r.Report(true, MessageGenerated)

	want := []Event{
		{Message: MessageSampling},
		{Message: MessageGenerated, Done: true},
	}
	assert.Equal(t, want, first.Events())
	assert.Equal(t, want, second.Events())
}

func TestTee_Collapses(t *testing.T) {
	assert.Nil(t, Tee())
	assert.Nil(t, Tee(nil, nil))

	only := &EventLog{}
	assert.Same(t, only, Tee(nil, only))
}

func TestEventLog_Last(t *testing.T) {
	log := &EventLog{}
	_, ok := log.Last()
	require.False(t, ok)

	log.Report(false, "Blending 2 octaves")
	last, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, Event{Message: "Blending 2 octaves"}, last)

	events := log.Events()
	events[0].Message = "changed"
	assert.Equal(t, "Blending 2 octaves", log.Events()[0].Message, "Events returns a copy")
}
