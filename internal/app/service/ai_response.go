package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/core/domain"
)

const defaultConfidence = 0.5

var errNoJSONObject = errors.New("no json object in reply")

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// extractJSONObject pulls a JSON object out of a model reply that may be wrapped in
// markdown fences or surrounded by prose.
func extractJSONObject(reply string) ([]byte, error) {
	text := stripCodeFence(strings.TrimSpace(reply))
	if json.Valid([]byte(text)) && strings.HasPrefix(text, "{") {
		return []byte(text), nil
	}

	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end := matchingBrace(text, start); end > start {
			candidate := []byte(text[start : end+1])
			if json.Valid(candidate) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, errNoJSONObject
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// matchingBrace returns the index of the brace closing the one at start, or -1.
func matchingBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func decodeObject(reply string) (map[string]json.RawMessage, error) {
	payload, err := extractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// decodeTaskDraft validates a task-draft/v1 reply field by field. Only a reply with
// no JSON object at all is an error; every field has a fallback.
func decodeTaskDraft(reply, input string) (domain.TaskDraft, error) {
	fields, err := decodeObject(reply)
	if err != nil {
		return domain.TaskDraft{}, err
	}

	draft := domain.TaskDraft{
		Title:      rawString(fields["title"]),
		Priority:   domain.PriorityMedium,
		Category:   domain.CategoryOther,
		Confidence: rawConfidence(fields["confidence"]),
	}

	draft.Title = domain.TruncateRunes(strings.TrimSpace(draft.Title), domain.MaxTitleLength)
	if draft.Title == "" {
		draft.Title = domain.TruncateRunes(strings.TrimSpace(input), domain.MaxTitleLength)
	}

	if description := strings.TrimSpace(rawString(fields["description"])); description != "" {
		draft.Description = &description
	}
	if p, ok := domain.ParsePriority(rawString(fields["priority"])); ok {
		draft.Priority = p
	}
	if c, ok := domain.ParseCategory(rawString(fields["category"])); ok {
		draft.Category = c
	}
	draft.DueDate = parseDueDate(rawString(fields["due_date"]))

	return draft, nil
}

// decodeTaskOrder reads a task-order/v1 reply. Ids may come back as numbers or strings.
func decodeTaskOrder(reply string) ([]uint64, string, error) {
	fields, err := decodeObject(reply)
	if err != nil {
		return nil, "", err
	}

	var rawIDs []json.RawMessage
	if raw, ok := fields["order"]; ok {
		if err := json.Unmarshal(raw, &rawIDs); err != nil {
			return nil, "", err
		}
	}

	order := make([]uint64, 0, len(rawIDs))
	for _, raw := range rawIDs {
		value := strings.Trim(strings.TrimSpace(string(raw)), `"`)
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			continue
		}
		order = append(order, id)
	}

	return order, strings.TrimSpace(rawString(fields["reasoning"])), nil
}

type insightsReply struct {
	Summary string
	Tips    []string
}

const maxTips = 5

func decodeInsights(reply string) (insightsReply, error) {
	fields, err := decodeObject(reply)
	if err != nil {
		return insightsReply{}, err
	}

	out := insightsReply{Summary: strings.TrimSpace(rawString(fields["summary"]))}

	var rawTips []json.RawMessage
	if raw, ok := fields["tips"]; ok {
		_ = json.Unmarshal(raw, &rawTips)
	}
	for _, raw := range rawTips {
		tip := strings.TrimSpace(rawString(raw))
		if tip == "" {
			continue
		}
		out.Tips = append(out.Tips, tip)
		if len(out.Tips) == maxTips {
			break
		}
	}
	if out.Tips == nil {
		out.Tips = []string{}
	}

	return out, nil
}

// coerceCategory maps a free-text reply onto the category enum; anything else is other.
func coerceCategory(reply string) domain.Category {
	word := strings.Trim(strings.TrimSpace(reply), "\"'`.*!")
	if c, ok := domain.ParseCategory(word); ok {
		return c
	}
	return domain.CategoryOther
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func rawConfidence(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return defaultConfidence
	}

	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(rawString(raw)), 64)
		if parseErr != nil {
			return defaultConfidence
		}
		value = parsed
	}
	if math.IsNaN(value) {
		return defaultConfidence
	}
	return math.Min(math.Max(value, 0), 1)
}

func parseDueDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
