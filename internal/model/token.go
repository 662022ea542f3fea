package model

import "encoding/json"

// TokenScore is the lexical score of a single token. Level is nil when no
// scorer had data for the token.
type TokenScore struct {
	Text  string   `json:"text"`
	POS   string   `json:"pos,omitempty"`
	Level *float64 `json:"level_num"`
}

// NewTokenScore builds a token score with a known level
func NewTokenScore(text, pos string, level float64) TokenScore {
	return TokenScore{Text: text, POS: pos, Level: &level}
}

// Known reports whether the token has a level
func (t TokenScore) Known() bool {
	return t.Level != nil
}

// Label returns the rounded CEFR label of the token, or Unknown
func (t TokenScore) Label() Level {
	if t.Level == nil {
		return Unknown
	}
	return RoundLevel(*t.Level)
}

// MarshalJSON adds the level label next to the numeric level
func (t TokenScore) MarshalJSON() ([]byte, error) {
	type tokenJSON struct {
		Text       string   `json:"text"`
		POS        string   `json:"pos,omitempty"`
		Level      *float64 `json:"level_num"`
		LevelLabel *string  `json:"level_label"`
	}
	out := tokenJSON{Text: t.Text, POS: t.POS, Level: t.Level}
	if t.Level != nil {
		label := t.Label().String()
		out.LevelLabel = &label
	}
	return json.Marshal(out)
}
