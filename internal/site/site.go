// Package site holds the portfolio's static content. It is plain data: the
// web and terminal hosts render it, nothing here changes at runtime.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"os"
	"time"

	"github.com/Zachkp/rootaccess/internal/anim"
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultYAML []byte

var ErrInvalidContent = errors.New("invalid site content")

type Header struct {
	Banner string `yaml:"banner"`
	Status string `yaml:"status"`
	IP     string `yaml:"ip"`
	Uptime string `yaml:"uptime"`
}

type Hero struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Tagline  string   `yaml:"tagline"`
	Actions  []string `yaml:"actions"`
}

type Service struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Icon        string   `yaml:"icon"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`

	Body template.HTML `yaml:"-"`
	Text string        `yaml:"-"` // description without markup, for the terminal
}

type Entry struct {
	Period  string `yaml:"period"`
	Role    string `yaml:"role"`
	Org     string `yaml:"org"`
	Summary string `yaml:"summary"`

	Body template.HTML `yaml:"-"`
}

type Certification struct {
	Name   string `yaml:"name"`
	Issuer string `yaml:"issuer"`
	Year   int    `yaml:"year"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Contact struct {
	Email string `yaml:"email"`
	PGP   string `yaml:"pgp"`
	Links []Link `yaml:"links"`
}

// Scan overrides the scan waveform. Each segment row is [start, end, from, to].
type Scan struct {
	PeriodMS int         `yaml:"period_ms"`
	Segments [][]float64 `yaml:"segments"`
}

type Site struct {
	Header         Header          `yaml:"header"`
	Hero           Hero            `yaml:"hero"`
	Services       []Service       `yaml:"services"`
	Timeline       []Entry         `yaml:"timeline"`
	Certifications []Certification `yaml:"certifications"`
	Contact        Contact         `yaml:"contact"`
	Prompt         string          `yaml:"prompt"`
	Scan           *Scan           `yaml:"scan"`

	wave anim.WaveformConfig
}

// Default returns the embedded content.
func Default() (*Site, error) {
	return Parse(defaultYAML)
}

// Load reads content from path, or the embedded content when path is empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Site) prepare() error {
	if s.Hero.Title == "" {
		return fmt.Errorf("%w: hero title is required", ErrInvalidContent)
	}
	if s.Prompt == "" {
		s.Prompt = "root@kali:~#"
	}

	policy := bluemonday.UGCPolicy()
	strict := bluemonday.StrictPolicy()
	seen := make(map[string]bool, len(s.Services))
	for i := range s.Services {
		svc := &s.Services[i]
		if svc.ID == "" {
			return fmt.Errorf("%w: service %d has no id", ErrInvalidContent, i)
		}
		if seen[svc.ID] {
			return fmt.Errorf("%w: duplicate service id %q", ErrInvalidContent, svc.ID)
		}
		seen[svc.ID] = true
		svc.Body = template.HTML(policy.Sanitize(svc.Description))
		svc.Text = html.UnescapeString(strict.Sanitize(svc.Description))
	}
	for i := range s.Timeline {
		s.Timeline[i].Body = template.HTML(policy.Sanitize(s.Timeline[i].Summary))
	}

	s.wave = anim.ScanWaveform
	if s.Scan != nil {
		wave := anim.WaveformConfig{Period: time.Duration(s.Scan.PeriodMS) * time.Millisecond}
		for i, row := range s.Scan.Segments {
			if len(row) != 4 {
				return fmt.Errorf("%w: scan segment %d needs 4 values, got %d", ErrInvalidContent, i, len(row))
			}
			wave.Segments = append(wave.Segments, anim.Segment{Start: row[0], End: row[1], From: row[2], To: row[3]})
		}
		if err := wave.Validate(); err != nil {
			return fmt.Errorf("%w: scan: %w", ErrInvalidContent, err)
		}
		s.wave = wave
	}
	return nil
}

// Service looks up an attack-vector card by id.
func (s *Site) Service(id string) (Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// Waveform is the scan curve for the header progress bar.
func (s *Site) Waveform() anim.WaveformConfig {
	return s.wave
}
