package gateway

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{
			"fenced json",
			"```json\n[{\"a\":1}]\n```",
			`[{"a":1}]`,
		},
		{
			"fenced without language tag",
			"```\n{\"a\":1}\n```",
			`{"a":1}`,
		},
		{
			"prose around payload",
			`Here are the candidates: [{"a":1}] Let me know if you need more.`,
			`[{"a":1}]`,
		},
		{
			"prose around object",
			`The merged entry is {"a":1}. Anything else?`,
			`{"a":1}`,
		},
		{"no payload", "sorry, nothing found", "sorry, nothing found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.content); got != tt.want {
				t.Errorf("extractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCandidates(t *testing.T) {
	content := "```json\n" + `[
		{"question": " How do I reset my password? ", "answer": "Use the self-service portal.", "category": "accounts", "confidence": 0.92, "sourceMessageIndices": ["0", "1"]},
		{"question": "What is the VPN host?", "answer": "vpn.example.com", "confidence": 0.85, "sourceMessageIndices": [2, 3]},
		{"question": "", "answer": "orphan answer", "confidence": 0.9},
		{"question": "orphan question", "answer": "  ", "confidence": 0.9}
	]` + "\n```"

	candidates, err := parseCandidates(content)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2 after dropping blanks", len(candidates))
	}
	first := candidates[0]
	if first.Question != "How do I reset my password?" || first.Category != "accounts" || first.Confidence != 0.92 {
		t.Errorf("first candidate = %+v", first)
	}
	if len(first.SourceMessageIndices) != 2 || first.SourceMessageIndices[0] != "0" {
		t.Errorf("string indices = %v", first.SourceMessageIndices)
	}
	// Numeric indices are normalized to strings.
	second := candidates[1]
	if len(second.SourceMessageIndices) != 2 || second.SourceMessageIndices[0] != "2" || second.SourceMessageIndices[1] != "3" {
		t.Errorf("numeric indices = %v", second.SourceMessageIndices)
	}
}

func TestParseCandidatesMalformed(t *testing.T) {
	if _, err := parseCandidates("not json at all"); err == nil {
		t.Fatal("expected parse error")
	}
	candidates, err := parseCandidates("[]")
	if err != nil || len(candidates) != 0 {
		t.Fatalf("empty array: %v, %v", candidates, err)
	}
}

func TestParseEnhancedQA(t *testing.T) {
	got, err := parseEnhancedQA(`{"enhancedQuestion": " Merged question ", "enhancedAnswer": "Merged answer", "confidence": 0.93}`)
	if err != nil {
		t.Fatalf("parseEnhancedQA: %v", err)
	}
	if got.Question != "Merged question" || got.Answer != "Merged answer" || got.Confidence != 0.93 {
		t.Errorf("result = %+v", got)
	}

	if _, err := parseEnhancedQA(`{"enhancedQuestion": "q"}`); err == nil {
		t.Error("missing answer accepted")
	}
	if _, err := parseEnhancedQA("broken"); err == nil {
		t.Error("malformed payload accepted")
	}
}

func TestStringifyIndices(t *testing.T) {
	got := stringifyIndices([]any{"5", float64(7), true, nil, "x"})
	want := []string{"5", "7", "x"}
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("indices[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
