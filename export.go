package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/Zachkp/rootaccess/internal/site"
	"github.com/gin-gonic/gin"
)

// resumeExporter renders the resume as plain HTML and converts it to
// Markdown for /resume.md.
type resumeExporter struct {
	tmpl    *template.Template
	content *site.Site
	md      *converter.Converter
}

func newResumeExporter(glob string, content *site.Site) (*resumeExporter, error) {
	tmpl, err := template.ParseGlob(glob)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &resumeExporter{
		tmpl:    tmpl,
		content: content,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}, nil
}

func (x *resumeExporter) markdown() (string, error) {
	var buf bytes.Buffer
	if err := x.tmpl.ExecuteTemplate(&buf, "resume.html", gin.H{"site": x.content}); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}
	md, err := x.md.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("convert resume: %w", err)
	}
	return md, nil
}

func (x *resumeExporter) handle(c *gin.Context) {
	md, err := x.markdown()
	if err != nil {
		log.Printf("Error exporting resume: %v", err)
		c.String(http.StatusInternalServerError, "Failed to export resume")
		return
	}

	c.Header("Content-Disposition", "inline; filename=resume.md")
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}
