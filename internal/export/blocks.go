package export

import (
	"regexp"
	"strings"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockBullet
	blockNumbered
	blockCode
	blockBlank
)

// block is one line of generated text classified for rendering.
type block struct {
	Kind  blockKind
	Level int
	Text  string
}

func (b block) IsHeading() bool { return b.Kind == blockHeading }
func (b block) IsBullet() bool  { return b.Kind == blockBullet }
func (b block) IsCode() bool    { return b.Kind == blockCode }
func (b block) IsBlank() bool   { return b.Kind == blockBlank }

var numberedItem = regexp.MustCompile(`^\d+[.)]\s`)

// parseBlocks classifies the lines of markdown-ish model output.
func parseBlocks(content string) []block {
	var out []block
	inCode := false
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			out = append(out, block{Kind: blockCode, Text: line})
			continue
		}
		switch {
		case trimmed == "":
			out = append(out, block{Kind: blockBlank})
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			out = append(out, block{Kind: blockHeading, Level: min(level, 6), Text: cleanInlineMarkdown(strings.TrimLeft(trimmed, "# "))})
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			out = append(out, block{Kind: blockBullet, Text: cleanInlineMarkdown(trimmed[2:])})
		case numberedItem.MatchString(trimmed):
			out = append(out, block{Kind: blockNumbered, Text: cleanInlineMarkdown(trimmed)})
		default:
			out = append(out, block{Kind: blockParagraph, Text: cleanInlineMarkdown(trimmed)})
		}
	}
	return out
}

var (
	italic     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCode = regexp.MustCompile("`([^`]+)`")
	link       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// cleanInlineMarkdown strips inline Markdown formatting.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italic.ReplaceAllString(text, " $1 ")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = link.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
