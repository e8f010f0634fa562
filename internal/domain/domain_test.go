package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentiment(t *testing.T) {
	assert.Equal(t, SentimentPositive, ParseSentiment("positive"))
	assert.Equal(t, SentimentNeutral, ParseSentiment("neutral"))
	assert.Equal(t, SentimentNegative, ParseSentiment("negative"))

	// Anything off-label coerces to neutral, never an error.
	assert.Equal(t, SentimentNeutral, ParseSentiment("ANGRY"))
	assert.Equal(t, SentimentNeutral, ParseSentiment(""))
	assert.Equal(t, SentimentNeutral, ParseSentiment("positive."))
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, ClampRating(-3))
	assert.Equal(t, 1, ClampRating(0))
	assert.Equal(t, 1, ClampRating(1))
	assert.Equal(t, 7, ClampRating(7))
	assert.Equal(t, 10, ClampRating(10))
	assert.Equal(t, 10, ClampRating(15))
}

func TestParseRating(t *testing.T) {
	rating, err := ParseRating("8")
	require.NoError(t, err)
	assert.Equal(t, 8, rating)

	rating, err = ParseRating("42")
	require.NoError(t, err)
	assert.Equal(t, 10, rating)

	rating, err = ParseRating("-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rating)

	_, err = ParseRating("great")
	assert.Error(t, err)

	_, err = ParseRating("7.5")
	assert.Error(t, err)

	_, err = ParseRating("")
	assert.Error(t, err)
}

func TestUserArticleAddAction(t *testing.T) {
	ua := &UserArticle{}

	assert.True(t, ua.AddAction(ActionViewed))
	assert.True(t, ua.AddAction(ActionLiked))
	assert.False(t, ua.AddAction(ActionViewed))

	assert.Equal(t, []Action{ActionViewed, ActionLiked}, ua.Actions)
}

func TestVectorSentinel(t *testing.T) {
	assert.True(t, AbsentVector.Absent())
	assert.True(t, Vector{}.Absent())
	assert.False(t, Vector{0}.Absent())

	raw, err := AbsentVector.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "", raw)

	raw, err = Vector{0.5, -1}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "[0.5,-1]", raw)
}

func TestUnmarshalVector(t *testing.T) {
	assert.Equal(t, Vector{0.5, -1}, UnmarshalVector("[0.5,-1]"))

	// Empty, malformed, and zero-length payloads all come back as the
	// sentinel so broken rows are excluded from retrieval instead of
	// failing it.
	assert.True(t, UnmarshalVector("").Absent())
	assert.True(t, UnmarshalVector("not json").Absent())
	assert.True(t, UnmarshalVector("[]").Absent())
}

func TestArticleEmbedded(t *testing.T) {
	a := Article{Embedding: AbsentVector}
	assert.False(t, a.Embedded())

	a.Embedding = Vector{0.1}
	assert.True(t, a.Embedded())
}

func TestExchangeTurns(t *testing.T) {
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	articleID := int64(7)

	e := Exchange{
		UserID:    5,
		ArticleID: &articleID,
		Question:  "[openai] what happened?",
		Answer:    "Nothing much.",
		Timestamp: ts,
	}

	turns := e.Turns()

	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, "[openai] what happened?", turns[0].Message)
	assert.Equal(t, RoleBot, turns[1].Role)
	assert.Equal(t, "Nothing much.", turns[1].Message)

	// Both turns share one timestamp; a question never appears without
	// its answer at a different time.
	assert.Equal(t, turns[0].Timestamp, turns[1].Timestamp)
	assert.Equal(t, turns[0].ArticleID, turns[1].ArticleID)
}
