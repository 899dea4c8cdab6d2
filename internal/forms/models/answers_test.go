package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type AnswersSuite struct {
	suite.Suite
}

func TestAnswersSuite(t *testing.T) {
	suite.Run(t, new(AnswersSuite))
}

func (s *AnswersSuite) TestAnswerKey() {
	s.Run("question id wins when present", func() {
		s.Equal("q-1", AnswerKey(Question{ID: "q-1"}, 3))
	})

	s.Run("falls back to the ordinal index", func() {
		s.Equal("3", AnswerKey(Question{}, 3))
	})
}

func (s *AnswersSuite) TestAnswerValue() {
	s.Run("resolves by canonical key", func() {
		q := Question{ID: "q-1", Type: QuestionShort}
		got := AnswerValue(q, 0, map[string]string{"q-1": "hello"})
		s.Equal("hello", got)
	})

	s.Run("falls back to ordinal key for historical records", func() {
		q := Question{ID: "q-1", Type: QuestionShort}
		got := AnswerValue(q, 2, map[string]string{"2": "legacy"})
		s.Equal("legacy", got)
	})

	s.Run("canonical key shadows the ordinal key", func() {
		q := Question{ID: "q-1", Type: QuestionShort}
		got := AnswerValue(q, 0, map[string]string{"q-1": "new", "0": "old"})
		s.Equal("new", got)
	})

	s.Run("missing answer renders the placeholder", func() {
		q := Question{ID: "q-1", Type: QuestionShort}
		s.Equal(MissingAnswer, AnswerValue(q, 0, map[string]string{}))
	})

	s.Run("stored empty answer renders as-is, not the placeholder", func() {
		q := Question{ID: "q-1", Type: QuestionShort}
		s.Equal("", AnswerValue(q, 0, map[string]string{"q-1": ""}))
	})

	s.Run("date answers are formatted for display", func() {
		q := Question{ID: "q-1", Type: QuestionDate}
		got := AnswerValue(q, 0, map[string]string{"q-1": "2024-01-05"})
		s.Equal("Jan 05, 2024", got)
	})

	s.Run("RFC3339 date answers are formatted for display", func() {
		q := Question{ID: "q-1", Type: QuestionDate}
		got := AnswerValue(q, 0, map[string]string{"q-1": "2024-01-05T10:30:00Z"})
		s.Equal("Jan 05, 2024", got)
	})

	s.Run("unparseable dates render the raw value", func() {
		q := Question{ID: "q-1", Type: QuestionDate}
		got := AnswerValue(q, 0, map[string]string{"q-1": "soon"})
		s.Equal("soon", got)
	})
}

func (s *AnswersSuite) TestDefaultLabel() {
	s.Equal("Short", QuestionShort.DefaultLabel())
	s.Equal("Date", QuestionDate.DefaultLabel())
	s.Equal("Long", QuestionLong.DefaultLabel())
}
