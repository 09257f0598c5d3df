// Package digest assembles the eight-stage pipeline (spec.md §2) and
// exposes the single entrypoint callers use: Generate.
package digest

import (
	"context"
	"html"
	"strconv"
	"strings"
	"time"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/entity"
	"worker_server/internal/digest/enrich"
	"worker_server/internal/digest/pipeline"
	"worker_server/internal/digest/port"
	"worker_server/internal/digest/section"
	"worker_server/internal/digest/temporal"
	digestvalidate "worker_server/internal/digest/validate"
	"worker_server/internal/linkbuilder"
	"worker_server/internal/synth"
)

// Deps bundles every collaborator the pipeline's stages call out to.
// Each is optional; a nil collaborator degrades that capability without
// failing the pipeline (spec.md §4.7, §6).
type Deps struct {
	Generator        port.Generator
	Embedder         port.Embedder
	WeatherProvider  port.WeatherProvider
	Geolocator       port.Geolocator
	Preferences      port.PreferencesReader
	EntityLLMEnabled bool
	NoiseElevation   section.NoiseElevationConfig
	Synthesis        synth.Config
}

// Core owns the validated pipeline and runs it per request.
type Core struct {
	pipeline    *pipeline.Pipeline
	preferences port.PreferencesReader
}

// New builds and validates the eight-stage pipeline. A non-DAG or
// unknown-stage dependency list returns apperr.PipelineValidation,
// matching spec.md §4.1 / §7 / scenario #5 of spec.md §8.
func New(deps Deps) (*Core, error) {
	stages := []pipeline.Stage{
		temporal.New(),
		section.NewT0Stage(),
		section.NewT1Stage(),
		section.NewNoiseElevationStage(deps.NoiseElevation, deps.Generator, deps.Embedder),
		entity.New(entity.Config{LLMEnabled: deps.EntityLLMEnabled}, deps.Generator),
		enrich.New(deps.Geolocator, deps.WeatherProvider),
		synth.New(deps.Synthesis, deps.Generator),
		digestvalidate.New(),
	}

	p, err := pipeline.New(stages)
	if err != nil {
		return nil, err
	}
	return &Core{pipeline: p, preferences: deps.Preferences}, nil
}

// RunInput bundles the pre-fetched inputs to one Generate call (spec.md
// §6).
type RunInput struct {
	UserID       string
	Emails       []domain.Email
	Now          time.Time
	UserTimezone string
	UserName     string
	CityHint     string
	RegionHint   string
	RawDigest    bool
}

const preferenceKeyTimezone = "digest_timezone"

// Output is the single response object returned to the caller (spec.md
// §6). Its fields carry no JSON tags, so an encoded Output uses the Go
// field names as keys (for example "HTML", "WordCount"), not snake_case
// names.
type Output struct {
	HTML                string
	Text                string
	WordCount           int
	EntitiesCount       int
	FeaturedCount       int
	NoiseBreakdown      map[string]int
	CriticalCount       int
	TimeSensitiveCount  int
	RoutineCount        int
	Verified            bool
	Errors              []string
	Fallback            bool
	GeneratedAtLocal    string
	Timezone            string
	City                string
	PipelineVersion     string
	SectionDistribution map[string]int
}

// Generate runs the pipeline once and always returns an Output — failures
// degrade to a deterministic fallback rather than propagating an error to
// the caller (spec.md §7 "User-visible behaviour").
func (c *Core) Generate(ctx context.Context, in RunInput) Output {
	tzName := in.UserTimezone
	if tzName == "" && c.preferences != nil && in.UserID != "" {
		if pref, ok, err := c.preferences.GetPreference(ctx, in.UserID, preferenceKeyTimezone); err == nil && ok {
			tzName = pref
		}
	}

	tz, err := time.LoadLocation(tzName)
	if err != nil || tzName == "" {
		tz = time.UTC
	}

	dc := domain.NewContext(in.Emails, in.Now, tz, in.UserName, in.CityHint, in.RegionHint, in.RawDigest)
	run := c.pipeline.Run(ctx, dc)

	if !run.Success {
		return fallbackOutput(dc, run.FailedStage)
	}

	return buildOutput(dc, false)
}

func buildOutput(dc *domain.Context, fallback bool) Output {
	sectionDist := make(map[string]int)
	var critical, timeSensitive, routine int

	for _, item := range dc.FeaturedItems {
		sectionDist[string(item.Section)]++
		switch item.Section {
		case domain.SectionCritical:
			critical++
		case domain.SectionToday, domain.SectionComingUp:
			timeSensitive++
		case domain.SectionWorthKnowing:
			routine++
		}
	}

	city := ""
	if dc.WeatherInfo != nil {
		city = dc.WeatherInfo.City
	}

	text := synth.PlainText(dc.DigestHTML)

	return Output{
		HTML:                dc.DigestHTML,
		Text:                text,
		WordCount:           wordCount(text),
		EntitiesCount:       len(dc.Entities),
		FeaturedCount:       len(dc.FeaturedItems),
		NoiseBreakdown:      dc.NoiseSummary,
		CriticalCount:       critical,
		TimeSensitiveCount:  timeSensitive,
		RoutineCount:        routine,
		Verified:            dc.Verified,
		Errors:              dc.ValidationErrors,
		Fallback:            fallback,
		GeneratedAtLocal:    dc.Now.In(dc.UserTimezone).Format(time.RFC3339),
		Timezone:            dc.UserTimezone.String(),
		City:                city,
		PipelineVersion:     "v2",
		SectionDistribution: sectionDist,
	}
}

func wordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		isSpace := r == ' ' || r == '\n' || r == '\t'
		if !isSpace && !inWord {
			count++
			inWord = true
		} else if isSpace {
			inWord = false
		}
	}
	return count
}

// fallbackOutput renders the deterministic email-list fallback digest
// (spec.md §7): grouped by section, linked to mail-client threads,
// tagged fallback=true.
func fallbackOutput(dc *domain.Context, failedStage string) Output {
	var parts []string
	parts = append(parts, `<div class="section"><p class="section-content">We hit a snag building your full digest, here are your emails by section.</p></div>`)

	byEmail := make(map[string]domain.Email, len(dc.Emails))
	for _, e := range dc.Emails {
		byEmail[e.ID] = e
	}

	number := 1
	for _, sec := range []domain.Section{domain.SectionCritical, domain.SectionToday, domain.SectionComingUp, domain.SectionWorthKnowing} {
		var ids []string
		for id, s := range dc.SectionAssignments {
			if s == sec {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		parts = append(parts, `<div class="section"><p class="section-content">`+string(sec)+`</p>`)
		for _, id := range ids {
			email := byEmail[id]
			link := linkbuilder.ThreadLink(email.ThreadID)
			if email.ThreadID == "" {
				link = linkbuilder.MessageLink(email.ID)
			}
			parts = append(parts, `<div class="section-content">(`+itoa(number)+`) <a href="`+link+`">`+escapeForFallback(email.Subject)+`</a></div>`)
			number++
		}
		parts = append(parts, "</div>")
	}

	htmlDoc := "<!DOCTYPE html><html><body>" + strings.Join(parts, "") + "</body></html>"

	out := buildOutput(dc, true)
	out.HTML = htmlDoc
	out.Text = synth.PlainText(htmlDoc)
	out.Fallback = true
	out.Errors = append(out.Errors, "pipeline stage failed: "+failedStage)
	return out
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func escapeForFallback(s string) string {
	return html.EscapeString(s)
}
