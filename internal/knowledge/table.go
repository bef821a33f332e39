// Package knowledge holds the canned-response table the assistant answers from:
// the ordered keyword rules, one response per topic, the welcome text, the quick
// actions and the owner's contact profile.
package knowledge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BTreeMap/PortfolioBot/internal/models"
)

// ErrInvalidTable is wrapped by every validation failure.
var ErrInvalidTable = errors.New("invalid knowledge table")

// Table is the static knowledge the resolver and the session are built from.
// Rule order is significant: the first matching rule wins.
type Table struct {
	Welcome      string                  `yaml:"welcome"`
	Profile      models.Profile          `yaml:"profile"`
	Rules        []models.KeywordRule    `yaml:"rules"`
	Responses    map[models.Topic]string `yaml:"responses"`
	QuickActions []models.QuickAction    `yaml:"quick_actions"`
}

// Response returns the canned text for a topic, falling back to the default response.
func (t *Table) Response(topic models.Topic) string {
	if text, ok := t.Responses[topic]; ok && text != "" {
		return text
	}
	return t.Responses[models.TopicDefault]
}

// Validate checks the table invariants: known topics, non-empty triggers,
// no duplicate rules and a non-empty response for every topic.
func (t *Table) Validate() error {
	seen := make(map[models.Topic]bool, len(t.Rules))
	for i, rule := range t.Rules {
		if !models.IsValidTopic(rule.Topic) {
			return fmt.Errorf("%w: rule %d has unknown topic %q", ErrInvalidTable, i, rule.Topic)
		}
		if rule.Topic == models.TopicDefault {
			return fmt.Errorf("%w: rule %d: the default topic cannot have triggers", ErrInvalidTable, i)
		}
		if seen[rule.Topic] {
			return fmt.Errorf("%w: topic %q has more than one rule", ErrInvalidTable, rule.Topic)
		}
		seen[rule.Topic] = true
		if len(rule.Triggers) == 0 {
			return fmt.Errorf("%w: rule %q has no triggers", ErrInvalidTable, rule.Topic)
		}
		for _, trigger := range rule.Triggers {
			// An empty trigger is a substring of every input.
			if strings.TrimSpace(trigger) == "" {
				return fmt.Errorf("%w: rule %q has an empty trigger", ErrInvalidTable, rule.Topic)
			}
		}
	}

	for _, topic := range models.AllTopics {
		if strings.TrimSpace(t.Responses[topic]) == "" {
			return fmt.Errorf("%w: missing response for topic %q", ErrInvalidTable, topic)
		}
	}
	for topic := range t.Responses {
		if !models.IsValidTopic(topic) {
			return fmt.Errorf("%w: response for unknown topic %q", ErrInvalidTable, topic)
		}
	}

	for i, action := range t.QuickActions {
		if strings.TrimSpace(action.Label) == "" || strings.TrimSpace(action.Query) == "" {
			return fmt.Errorf("%w: quick action %d needs both a label and a query", ErrInvalidTable, i)
		}
	}
	return nil
}

// QuickAction finds a quick action by label, ignoring case and surrounding spaces.
func (t *Table) QuickAction(label string) (models.QuickAction, bool) {
	label = strings.TrimSpace(label)
	for _, action := range t.QuickActions {
		if strings.EqualFold(action.Label, label) {
			return action, true
		}
	}
	return models.QuickAction{}, false
}
