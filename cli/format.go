package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/meghashyamc/booksearch/services/search"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseFormat(format string) (outputFormat, error) {
	switch outputFormat(format) {
	case formatText, formatJSON, formatYAML:
		return outputFormat(format), nil
	}
	return "", fmt.Errorf("unknown output format %q, expected text, json or yaml", format)
}

func writeResponse(w io.Writer, response *search.Response, format outputFormat) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(response)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return writeText(w, response)
	}
}

func writeText(w io.Writer, response *search.Response) error {
	if len(response.Data) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}

	for i, result := range response.Data {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "[%d] score %.2f\n  Title:  %s\n  Author: %s\n  ISBN:   %s\n  Page:   %s\n  URL:    %s\n  %s\n",
			i+1, result.Score, result.Title, result.Author, result.ISBN, result.Page, result.URL, result.Content)
		if err != nil {
			return err
		}
	}

	return nil
}
