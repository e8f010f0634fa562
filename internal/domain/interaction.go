package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Action is a tag recording one kind of interaction with an article.
type Action string

const (
	ActionViewed Action = "viewed"
	ActionLiked  Action = "liked"
	ActionLinked Action = "linked"
)

const (
	RatingMin = 1
	RatingMax = 10
)

// UserArticle tracks the cumulative interaction state of one (user, article)
// pair. Actions are a set: adding an action the user already performed is a
// no-op apart from refreshing UpdatedAt.
type UserArticle struct {
	ID        int64
	UserID    int64
	ArticleID int64
	Actions   []Action
	Rating    *int
	Notes     *string
	UpdatedAt time.Time
}

// AddAction appends the tag if it is not already present and reports whether
// the set changed.
func (ua *UserArticle) AddAction(action Action) bool {
	for _, a := range ua.Actions {
		if a == action {
			return false
		}
	}
	ua.Actions = append(ua.Actions, action)
	return true
}

// ClampRating forces a rating into the valid [1, 10] range.
func ClampRating(rating int) int {
	if rating < RatingMin {
		return RatingMin
	}
	if rating > RatingMax {
		return RatingMax
	}
	return rating
}

// ParseRating converts raw user input into a clamped rating. Non-numeric
// input is rejected so the caller can refuse it before touching storage.
func ParseRating(raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("rating must be a whole number between %d and %d", RatingMin, RatingMax)
	}
	return ClampRating(value), nil
}
