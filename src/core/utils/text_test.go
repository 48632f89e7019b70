package utils

import (
	"testing"
)

func TestSplitAtLastPunctuation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		chars    int
	}{
		{
			name:     "single sentence",
			input:    "Hello there.",
			expected: "Hello there.",
			chars:    12,
		},
		{
			name:     "trailing fragment kept back",
			input:    "First part. Second part is still stream",
			expected: "First part.",
			chars:    11,
		},
		{
			name:     "question mark",
			input:    "Where am I? Let me",
			expected: "Where am I?",
			chars:    11,
		},
		{
			name:     "no boundary yet",
			input:    "still streaming with no end",
			expected: "",
			chars:    0,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
			chars:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segment, chars := SplitAtLastPunctuation(tt.input)
			if segment != tt.expected || chars != tt.chars {
				t.Errorf("SplitAtLastPunctuation(%q) = (%q, %d), want (%q, %d)",
					tt.input, segment, chars, tt.expected, tt.chars)
			}
		})
	}
}

func TestRemoveMarkdownSyntax(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bullet list",
			input:    "* first\n* second",
			expected: "first second",
		},
		{
			name:     "bold and heading",
			input:    "# Title with **bold** words",
			expected: "Title with bold words",
		},
		{
			name:     "plain text untouched",
			input:    "I am going to the store.",
			expected: "I am going to the store.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RemoveMarkdownSyntax(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveMarkdownSyntax(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveAllPunctuation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "exit phrase with period",
			input:    "goodbye ruby.",
			expected: "goodbye ruby",
		},
		{
			name:     "mixed punctuation",
			input:    "Hello, world! This is a test.",
			expected: "Hello world This is a test",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "!@#$%^&*(),.?;:",
			expected: "",
		},
		{
			name:     "digits and letters kept",
			input:    "abc123 test!",
			expected: "abc123 test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RemoveAllPunctuation(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveAllPunctuation(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestContainsAny(t *testing.T) {
	phrases := []string{"who created you", "who made you"}

	t.Run("case insensitive match", func(t *testing.T) {
		if !ContainsAny("Tell me WHO CREATED YOU please", phrases) {
			t.Error("expected match")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if ContainsAny("what is the weather", phrases) {
			t.Error("unexpected match")
		}
	})
}
