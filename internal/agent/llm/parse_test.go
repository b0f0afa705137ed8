package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carllama/server/internal/agent/model"
)

func TestDecodeObjectHandlesFencesAndProse(t *testing.T) {
	content := "Sure, here is the extraction:\n```json\n{\"intent\": \"buying_car\", \"slots\": {\"brand\": \"BMW\", \"budget\": 20000}}\n```\nLet me know if you need more."

	out, err := decodeObject[model.Extraction](content)
	require.NoError(t, err)

	assert.Equal(t, "buying_car", out.Intent)
	assert.Equal(t, "BMW", out.Slots["brand"])
	assert.Equal(t, float64(20000), out.Slots["budget"])
}

func TestDecodeObjectKeepsExplicitNulls(t *testing.T) {
	out, err := decodeObject[model.Extraction](`{"intent":"buying_car","slots":{"brand":null,"budget":15000}}`)
	require.NoError(t, err)

	value, present := out.Slots["brand"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestDecodeArray(t *testing.T) {
	content := "```\n[{\"intent\":\"buying_car\",\"text\":\"I want a car\"},{\"intent\":\"get_car_info\",\"text\":\"what about car 4\"}]\n```"

	segs, err := decodeArray[model.Segment](content)
	require.NoError(t, err)

	require.Len(t, segs, 2)
	assert.Equal(t, "buying_car", segs[0].Intent)
	assert.Equal(t, "what about car 4", segs[1].Text)
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := decodeObject[model.Decision]("I could not decide on an action.")
	assert.Error(t, err)

	_, err = decodeArray[model.Segment]("no segments today")
	assert.Error(t, err)
}

func TestWithHistory(t *testing.T) {
	assert.Equal(t, "hello", withHistory("hello", ""))

	wrapped := withHistory("hello", "User: hi\nSystem: hey\n")
	assert.Contains(t, wrapped, "<conversation_history>")
	assert.Contains(t, wrapped, "User: hi")
	assert.Contains(t, wrapped, "hello")
}
