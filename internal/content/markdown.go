package content

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Markdown converts document HTML to Markdown.
func Markdown(raw string) (string, error) {
	md, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return md, nil
}
