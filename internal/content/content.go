// Package content serves the static marketing content: hero slides and
// customer reviews.
package content

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultDocument []byte

// Slide is one hero carousel image.
type Slide struct {
	URL   string `json:"url" yaml:"url"`
	Alt   string `json:"alt" yaml:"alt"`
	Title string `json:"title,omitempty" yaml:"title"`
}

// Review is a customer testimonial.
type Review struct {
	ID       int     `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Company  string  `json:"company" yaml:"company"`
	Location string  `json:"location" yaml:"location"`
	Avatar   string  `json:"avatar" yaml:"avatar"`
	Handle   string  `json:"handle" yaml:"handle"`
	Review   string  `json:"review" yaml:"review"`
	Score    float64 `json:"score" yaml:"score"`
	Verified bool    `json:"verified" yaml:"verified"`
}

// Stars splits a score into filled and half stars out of five.
func (r Review) Stars() (full int, half bool) {
	full = int(math.Floor(r.Score))
	return full, r.Score != math.Floor(r.Score)
}

// Library is the loaded content document.
type Library struct {
	SlideInterval time.Duration `yaml:"slide_interval"`
	Slides        []Slide       `yaml:"slides"`
	Reviews       []Review      `yaml:"reviews"`
}

// Load parses a content document.
func Load(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("content: decode document: %w", err)
	}
	if lib.SlideInterval <= 0 {
		lib.SlideInterval = 5 * time.Second
	}
	return &lib, nil
}

// Default loads the content shipped with the binary.
func Default() (*Library, error) {
	return Load(defaultDocument)
}

// AverageScore is the mean review score rounded to one decimal.
func (l *Library) AverageScore() float64 {
	if len(l.Reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range l.Reviews {
		sum += r.Score
	}
	return math.Round(sum/float64(len(l.Reviews))*10) / 10
}
