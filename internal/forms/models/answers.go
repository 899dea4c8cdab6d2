package models

import (
	"strconv"
	"time"
)

// AnswerKey returns the canonical form-data key for a question: its id, or
// the ordinal index when the question has no id. The same function is used at
// write time and read time so keys always line up.
func AnswerKey(q Question, ordinal int) string {
	if q.ID != "" {
		return q.ID
	}
	return strconv.Itoa(ordinal)
}

// AnswerValue resolves the stored answer for a question. Data written before
// keys were canonicalized may sit under the raw ordinal index, so a miss on
// the canonical key falls back to the ordinal key (compatibility shim for
// historical records). Returns MissingAnswer when neither key is present.
// Date answers are reformatted for display when parseable.
func AnswerValue(q Question, ordinal int, data map[string]string) string {
	value, ok := data[AnswerKey(q, ordinal)]
	if !ok {
		value, ok = data[strconv.Itoa(ordinal)]
	}
	if !ok {
		return MissingAnswer
	}
	if q.Type == QuestionDate {
		return formatDate(value)
	}
	return value
}

// Date input layouts accepted for display formatting. Unparseable values are
// shown as the raw stored string.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

func formatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("Jan 02, 2006")
		}
	}
	return value
}
