package utils

import (
	"regexp"
	"strings"
)

// sentence-ending punctuation recognized when segmenting LLM output for TTS
var sentenceEnders = []string{".", "?", "!", ";", ":", "。", "？", "！", "；", "："}

// SplitAtLastPunctuation returns the longest prefix of text ending at a
// sentence boundary and the number of bytes consumed. Returns ("", 0) when
// no boundary has arrived yet.
func SplitAtLastPunctuation(text string) (string, int) {
	lastIndex := -1
	width := 0

	for _, punct := range sentenceEnders {
		if idx := strings.LastIndex(text, punct); idx > lastIndex {
			lastIndex = idx
			width = len(punct)
		}
	}

	if lastIndex == -1 {
		return "", 0
	}

	return text[:lastIndex+width], lastIndex + width
}

var markdownRe = regexp.MustCompile("[\\*#\\-+=>`~_\\[\\](){}|\\\\]")

// RemoveMarkdownSyntax strips markdown control characters before synthesis.
// Ruby's prompt forbids markdown, but providers emit it anyway.
func RemoveMarkdownSyntax(text string) string {
	cleaned := markdownRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

var punctRe = regexp.MustCompile(`[\p{P}\p{S}]`)

// RemoveAllPunctuation strips punctuation and symbols, keeping spaces.
// Used for exit-phrase matching against transcripts.
func RemoveAllPunctuation(text string) string {
	return punctRe.ReplaceAllString(text, "")
}

// JoinStrings concatenates streamed content chunks.
func JoinStrings(parts []string) string {
	return strings.Join(parts, "")
}

// ContainsAny reports whether lowered text contains any of the phrases.
func ContainsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
