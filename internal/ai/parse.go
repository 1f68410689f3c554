package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nao1215/siteaudit/internal/model"
)

// Assessment is the answer schema for analysis prompts:
//
//	{"insights": [{"category": "...", "severity": "...",
//	  "title": "...", "description": "...", "impact": "...",
//	  "solution": "...", "effort": "...", "roi": 0}]}
//
// Keys outside the schema are ignored; the health score is computed from the
// insights, never taken from the provider.
type Assessment struct {
	Insights []model.Insight
}

type rawAssessment struct {
	Insights []rawInsight `json:"insights"`
}

type rawInsight struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Solution    string `json:"solution"`
	Effort      string `json:"effort"`
	ROI         int    `json:"roi"`
}

// ConversionEstimate is the answer schema for conversion prompts.
type ConversionEstimate struct {
	CurrentRate       float64  `json:"currentRate"`
	ProjectedRate     float64  `json:"projectedRate"`
	Opportunities     []string `json:"opportunities"`
	ABTestSuggestions []string `json:"abTestSuggestions"`
}

// CompetitorReport is the answer schema for competitor prompts.
type CompetitorReport struct {
	TopCompetitors      []string `json:"topCompetitors"`
	StrengthsWeaknesses []string `json:"strengthsWeaknesses"`
	MarketPosition      string   `json:"marketPosition"`
	Opportunities       []string `json:"opportunities"`
}

// ParseAssessment decodes and validates an Assessment from provider output.
func ParseAssessment(text string) (Assessment, error) {
	var raw rawAssessment
	if err := decodeObject(text, &raw); err != nil {
		return Assessment{}, err
	}

	out := Assessment{Insights: make([]model.Insight, 0, len(raw.Insights))}
	for i, ri := range raw.Insights {
		in, err := ri.toInsight()
		if err != nil {
			return Assessment{}, schemaError(fmt.Sprintf("insights[%d]: %v", i, err))
		}
		out.Insights = append(out.Insights, in)
	}
	return out, nil
}

// ParseConversionEstimate decodes and validates a ConversionEstimate.
func ParseConversionEstimate(text string) (ConversionEstimate, error) {
	var est ConversionEstimate
	if err := decodeObject(text, &est); err != nil {
		return ConversionEstimate{}, err
	}
	if !validRate(est.CurrentRate) || est.CurrentRate == 0 {
		return ConversionEstimate{}, schemaError("currentRate must be in (0, 100]")
	}
	if !validRate(est.ProjectedRate) || est.ProjectedRate < est.CurrentRate {
		return ConversionEstimate{}, schemaError("projectedRate must be in [currentRate, 100]")
	}
	est.Opportunities = nonEmpty(est.Opportunities)
	est.ABTestSuggestions = nonEmpty(est.ABTestSuggestions)
	return est, nil
}

// ParseCompetitorReport decodes and validates a CompetitorReport.
func ParseCompetitorReport(text string) (CompetitorReport, error) {
	var rep CompetitorReport
	if err := decodeObject(text, &rep); err != nil {
		return CompetitorReport{}, err
	}
	rep.TopCompetitors = nonEmpty(rep.TopCompetitors)
	rep.StrengthsWeaknesses = nonEmpty(rep.StrengthsWeaknesses)
	rep.Opportunities = nonEmpty(rep.Opportunities)
	rep.MarketPosition = strings.TrimSpace(rep.MarketPosition)
	if len(rep.TopCompetitors) == 0 {
		return CompetitorReport{}, schemaError("topCompetitors must not be empty")
	}
	if rep.MarketPosition == "" {
		return CompetitorReport{}, schemaError("marketPosition is required")
	}
	return rep, nil
}

// decodeObject extracts the JSON object from text and decodes it into v,
// rejecting trailing data. Unknown keys are ignored.
func decodeObject(text string, v any) error {
	obj, err := extractJSONObject(text)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(obj))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if dec.More() {
		return schemaError("trailing data after object")
	}
	return nil
}

// extractJSONObject returns the outermost JSON object in text.
// Markdown code fences around the object are tolerated.
func extractJSONObject(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, schemaError("no JSON object in response")
	}
	return []byte(s[start : end+1]), nil
}

func (ri rawInsight) toInsight() (model.Insight, error) {
	category, ok := parseCategory(ri.Category)
	if !ok {
		return model.Insight{}, fmt.Errorf("unknown category %q", ri.Category)
	}
	severity, err := model.ParseSeverity(ri.Severity)
	if err != nil {
		return model.Insight{}, err
	}
	effort := model.Effort(strings.ToLower(strings.TrimSpace(ri.Effort)))
	if !effort.IsValid() {
		return model.Insight{}, fmt.Errorf("unknown effort %q", ri.Effort)
	}
	title := strings.TrimSpace(ri.Title)
	if title == "" {
		return model.Insight{}, errors.New("title is required")
	}
	if ri.ROI < 0 {
		return model.Insight{}, fmt.Errorf("roi %d is negative", ri.ROI)
	}
	return model.Insight{
		Category:    category,
		Severity:    severity,
		Title:       title,
		Description: strings.TrimSpace(ri.Description),
		Impact:      strings.TrimSpace(ri.Impact),
		Solution:    strings.TrimSpace(ri.Solution),
		Effort:      effort,
		ROI:         ri.ROI,
	}, nil
}

func parseCategory(s string) (model.Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range model.AllCategories() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r >= 0 && r <= 100
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func schemaError(msg string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, msg)
}
