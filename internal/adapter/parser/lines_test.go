package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-core/internal/domain/entity"
)

func TestNumberedListRoundTrip(t *testing.T) {
	inputs := []string{
		"1. What is OOP?\n2. Explain BFS.",
		"1) What is OOP?\n\n2) Explain BFS.\n",
		"  7. What is OOP?\n  9. Explain BFS.",
		"- What is OOP?\n- Explain BFS.",
		"Q1: What is OOP?\nQ2: Explain BFS.",
		"What is OOP?\nExplain BFS.",
	}
	for _, in := range inputs {
		got, err := NumberedList(in, 0)
		require.NoError(t, err, in)
		assert.Equal(t, []string{"1. What is OOP?", "2. Explain BFS."}, got, in)

		again, err := NumberedList(joinLines(got), 0)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func TestNumberedListTruncates(t *testing.T) {
	got, err := NumberedList("1. a\n2. b\n3. c\n4. d", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1. a", "2. b"}, got)
}

func TestNumberedListSkipsFences(t *testing.T) {
	got, err := NumberedList("```\n1. a\n```", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1. a"}, got)
}

func TestNumberedListEmpty(t *testing.T) {
	_, err := NumberedList("\n \n", 3)
	assert.ErrorIs(t, err, entity.ErrParse)
}

func TestPlainText(t *testing.T) {
	got, err := PlainText("  \"How did you measure the latency win?\"\n")
	require.NoError(t, err)
	assert.Equal(t, "How did you measure the latency win?", got)

	_, err = PlainText("   ")
	assert.ErrorIs(t, err, entity.ErrParse)
}
