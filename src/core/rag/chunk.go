package rag

import "strings"

// chunkSize is the target chunk length in bytes. Paragraphs are packed
// until the next one would overflow; a single oversized paragraph is
// split hard.
const chunkSize = 800

// SplitChunks breaks document text into retrieval-sized pieces along
// paragraph boundaries.
func SplitChunks(text string) []string {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder

	flush := func() {
		if piece := strings.TrimSpace(current.String()); piece != "" {
			chunks = append(chunks, piece)
		}
		current.Reset()
	}

	for _, paragraph := range paragraphs {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if len(paragraph) > chunkSize {
			flush()
			for len(paragraph) > chunkSize {
				chunks = append(chunks, strings.TrimSpace(paragraph[:chunkSize]))
				paragraph = paragraph[chunkSize:]
			}
			if piece := strings.TrimSpace(paragraph); piece != "" {
				chunks = append(chunks, piece)
			}
			continue
		}

		if current.Len() > 0 && current.Len()+len(paragraph)+2 > chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	return chunks
}
