// Package resolver maps free-text input to a canned response using ordered
// keyword-substring rules. Matching is case-insensitive substring containment,
// not whole-word: "hi" matches "this", and the first rule in table order wins.
package resolver

import (
	"log/slog"
	"strings"

	"github.com/BTreeMap/PortfolioBot/internal/knowledge"
	"github.com/BTreeMap/PortfolioBot/internal/models"
)

type rule struct {
	topic    models.Topic
	triggers []string
}

// Resolver answers input from a fixed knowledge table. It is safe for concurrent use.
type Resolver struct {
	rules     []rule
	responses map[models.Topic]string
}

// New builds a resolver from a knowledge table. The table is copied, so later
// changes to it do not affect the resolver. Triggers are lower-cased once here.
func New(table *knowledge.Table) *Resolver {
	r := &Resolver{
		rules:     make([]rule, 0, len(table.Rules)),
		responses: make(map[models.Topic]string, len(models.AllTopics)),
	}
	for _, kr := range table.Rules {
		triggers := make([]string, 0, len(kr.Triggers))
		for _, trigger := range kr.Triggers {
			triggers = append(triggers, strings.ToLower(trigger))
		}
		r.rules = append(r.rules, rule{topic: kr.Topic, triggers: triggers})
	}
	for _, topic := range models.AllTopics {
		r.responses[topic] = table.Response(topic)
	}
	slog.Debug("Resolver created", "rules", len(r.rules))
	return r
}

// Resolve returns the canned response for input. It never fails.
func (r *Resolver) Resolve(input string) string {
	return r.Lookup(input).Response
}

// Lookup returns the matched topic, the trigger that fired and the response.
func (r *Resolver) Lookup(input string) models.Resolution {
	normalized := strings.ToLower(input)
	for _, rl := range r.rules {
		for _, trigger := range rl.triggers {
			if strings.Contains(normalized, trigger) {
				return models.Resolution{
					Topic:    rl.topic,
					Trigger:  trigger,
					Response: r.responses[rl.topic],
				}
			}
		}
	}
	return models.Resolution{
		Topic:    models.TopicDefault,
		Response: r.responses[models.TopicDefault],
	}
}
