package gemini

import (
	"bytes"
	"fmt"
	"text/template"
)

const systemInstruction = "You are a translation engine for text recognized from images. " +
	"Reply with the translation only, without notes, quotes or transliteration."

var promptTemplate = template.Must(template.New("translate").Parse(
	`Translate the following text {{if .SourceLang}}from {{.SourceLang}} {{end}}into {{.TargetLang}}.
{{if not .SourceLang}}Detect the source language yourself.
{{end}}
Text:
{{.Text}}`))

type promptData struct {
	SourceLang string
	TargetLang string
	Text       string
}

func buildPrompt(text string, sourceLang *string, targetLang string) (string, error) {
	data := promptData{TargetLang: targetLang, Text: text}
	if sourceLang != nil {
		data.SourceLang = *sourceLang
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
