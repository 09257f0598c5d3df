package entity

import (
	"context"
	"regexp"
	"time"

	"github.com/goccy/go-json"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/port"
	"worker_server/pkg/logger"
)

// llmEntityResponse is the strict JSON schema the LLM path prompts for
// (spec.md §4.6). Schema violations discard the LLM contribution for that
// email, not the stage.
type llmEntityResponse struct {
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	EventTime     string `json:"event_time"`
	EventEndTime  string `json:"event_end_time"`
	DueDate       string `json:"due_date"`
	Amount        string `json:"amount"`
	FromWhom      string `json:"from_whom"`
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	Organizer     string `json:"organizer"`
	Message       string `json:"message"`
	ActionRequired bool  `json:"action_required"`
}

// ExtractLLM runs the LLM path for one email: a strict JSON-schema prompt
// over a redacted snippet. On any failure (call error, schema violation,
// unknown kind) it returns nil — the caller keeps the pattern-path result.
func ExtractLLM(ctx context.Context, gen port.Generator, email domain.Email) *domain.Entity {
	if gen == nil {
		return nil
	}

	prompt := buildExtractionPrompt(email)
	raw, err := gen.Generate(ctx, prompt, port.GenerateConfig{
		Temperature:  0,
		MaxTokens:    400,
		ResponseJSON: true,
	})
	if err != nil {
		logger.Debug("entity extraction LLM call failed for %s: %v", email.ID, err)
		return nil
	}

	var resp llmEntityResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Debug("entity extraction LLM response failed schema validation for %s: %v", email.ID, err)
		return nil
	}

	kind := domain.EntityKind(resp.Kind)
	switch kind {
	case domain.EntityFlight, domain.EntityEvent, domain.EntityDeadline,
		domain.EntityReminder, domain.EntityPromo, domain.EntityNotification:
	default:
		return nil
	}

	e := &domain.Entity{
		EntityHeader: domain.EntityHeader{Kind: kind},
		Title:        resp.Title,
		Airline:      resp.Airline,
		FlightNumber: resp.FlightNumber,
		Organizer:    resp.Organizer,
		Message:      resp.Message,
		Amount:       resp.Amount,
		FromWhom:     resp.FromWhom,
		ActionRequired: resp.ActionRequired,
	}
	if t, ok := parseISO(resp.EventTime); ok {
		e.EventTime = &t
	}
	if t, ok := parseISO(resp.EventEndTime); ok {
		e.EventEndTime = &t
	}
	if t, ok := parseISO(resp.DueDate); ok {
		e.DueDate = &t
	}
	return e
}

func parseISO(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func buildExtractionPrompt(email domain.Email) string {
	return "Extract a structured entity from this email as JSON matching the schema " +
		"{kind, title, event_time, event_end_time, due_date, amount, from_whom, airline, " +
		"flight_number, organizer, message, action_required}. Use RFC3339 for dates or " +
		"empty string if unknown. Respond with JSON only.\n\n" +
		"Subject: " + email.Subject + "\nSnippet: " + redact(email.Snippet)
}

// accountNumberPattern matches runs of eight or more digits.
var accountNumberPattern = regexp.MustCompile(`\b\d{8,}\b`)

// redact strips obvious account-number-shaped digit runs from the snippet
// before it is sent to the LLM collaborator.
func redact(snippet string) string {
	return accountNumberPattern.ReplaceAllString(snippet, "[redacted]")
}

// mergeEntities implements spec.md §4.6's field-by-field merge: LLM wins
// for textual fields, pattern wins for regex-derived identifiers, and any
// implausible LLM date is dropped in favor of the pattern value.
func mergeEntities(pattern, llm *domain.Entity, receivedAt time.Time) domain.Entity {
	if pattern == nil && llm == nil {
		return domain.Entity{}
	}
	if pattern == nil {
		return *llm
	}
	if llm == nil {
		return *pattern
	}

	merged := *pattern
	if llm.Title != "" {
		merged.Title = llm.Title
	}
	if llm.Organizer != "" {
		merged.Organizer = llm.Organizer
	}
	if llm.Message != "" {
		merged.Message = llm.Message
	}
	if llm.FromWhom != "" {
		merged.FromWhom = llm.FromWhom
	}
	merged.ActionRequired = merged.ActionRequired || llm.ActionRequired

	// Pattern wins for regex-derived identifiers: confirmation codes,
	// tracking numbers/links, and flight numbers stay as extracted by the
	// pattern path even if the LLM also asserted them.
	if merged.FlightNumber == "" {
		merged.FlightNumber = llm.FlightNumber
	}
	if merged.Airline == "" {
		merged.Airline = llm.Airline
	}

	if !rejectImplausibleDate(llm.EventTime, receivedAt) && llm.EventTime != nil {
		merged.EventTime = llm.EventTime
	}
	if !rejectImplausibleDate(llm.EventEndTime, receivedAt) && llm.EventEndTime != nil {
		merged.EventEndTime = llm.EventEndTime
	}
	if !rejectImplausibleDate(llm.DueDate, receivedAt) && llm.DueDate != nil {
		merged.DueDate = llm.DueDate
	}
	if merged.Amount == "" {
		merged.Amount = llm.Amount
	}
	return merged
}
