package metrics

import "testing"

func TestTokenUsage(t *testing.T) {
	var u TokenUsage
	if !u.IsZero() {
		t.Error("zero value should report IsZero")
	}

	u = u.Add(TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	u = u.Add(TokenUsage{PromptTokens: 1, TotalTokens: 1})

	if u.IsZero() {
		t.Error("accumulated usage should not be zero")
	}
	if u.PromptTokens != 11 || u.CompletionTokens != 5 || u.TotalTokens != 16 {
		t.Errorf("usage = %+v", u)
	}
}
