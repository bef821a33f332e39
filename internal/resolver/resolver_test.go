package resolver

import (
	"testing"

	"github.com/BTreeMap/PortfolioBot/internal/knowledge"
	"github.com/BTreeMap/PortfolioBot/internal/models"
)

func newDefaultResolver(t *testing.T) (*Resolver, *knowledge.Table) {
	t.Helper()
	table := knowledge.Default()
	return New(table), table
}

func TestResolveTopics(t *testing.T) {
	r, table := newDefaultResolver(t)

	tests := []struct {
		input string
		want  models.Topic
	}{
		{"hi", models.TopicGreeting},
		{"HELLO there", models.TopicGreeting},
		{"Hey!", models.TopicGreeting},
		{"Do you build React apps?", models.TopicServiceMern},
		{"I need a web app", models.TopicServiceMern},
		{"Do you use Spring?", models.TopicServiceJava},
		{"Can you build a GPT bot", models.TopicServiceAI},
		{"What does it cost?", models.TopicPricing},
		{"What is your pricing?", models.TopicPricing},
		{"timeline please", models.TopicTimeline},
		{"Where are you located?", models.TopicLocation},
		{"How can I contact you?", models.TopicContact},
		{"", models.TopicDefault},
		{"xyzzy", models.TopicDefault},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := r.Lookup(tt.input)
			if got.Topic != tt.want {
				t.Errorf("Lookup(%q) topic = %q, want %q", tt.input, got.Topic, tt.want)
			}
			if got.Response != table.Responses[tt.want] {
				t.Errorf("Lookup(%q) response does not match the %q response", tt.input, tt.want)
			}
			if r.Resolve(tt.input) != got.Response {
				t.Errorf("Resolve(%q) disagrees with Lookup", tt.input)
			}
		})
	}
}

func TestResolveEarlierRuleWins(t *testing.T) {
	r, table := newDefaultResolver(t)

	got := r.Lookup("how long for a website")
	if got.Topic != models.TopicServiceMern {
		t.Fatalf("expected service_mern, got %q", got.Topic)
	}
	if got.Trigger != "website" {
		t.Errorf("expected trigger %q, got %q", "website", got.Trigger)
	}
	if r.Resolve("how long is the website timeline") != table.Responses[models.TopicServiceMern] {
		t.Error("expected the MERN response to shadow the timeline response")
	}
}

func TestResolveMatchesSubstringsNotWords(t *testing.T) {
	r, _ := newDefaultResolver(t)

	tests := []struct {
		input string
		want  models.Topic
	}{
		// "hi" inside "this"
		{"this", models.TopicGreeting},
		// "ai" inside "email"
		{"email me", models.TopicServiceAI},
		// the Services quick action lands on the team answer via "about"
		{"Tell me about your services", models.TopicTeam},
	}
	for _, tt := range tests {
		if got := r.Lookup(tt.input).Topic; got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r, _ := newDefaultResolver(t)
	inputs := []string{"hello", "pricing", "nothing relevant", "", "WHERE ARE YOU BASED"}
	for _, in := range inputs {
		first := r.Resolve(in)
		for i := 0; i < 5; i++ {
			if got := r.Resolve(in); got != first {
				t.Fatalf("Resolve(%q) changed between calls: %q vs %q", in, first, got)
			}
		}
	}
}

func TestDefaultResolutionHasNoTrigger(t *testing.T) {
	r, _ := newDefaultResolver(t)
	got := r.Lookup("xyzzy")
	if got.Trigger != "" {
		t.Errorf("expected empty trigger, got %q", got.Trigger)
	}
}

func TestNewNormalizesTriggerCase(t *testing.T) {
	table := knowledge.Default()
	table.Rules = []models.KeywordRule{
		{Topic: models.TopicGreeting, Triggers: []string{"HOLA"}},
	}
	r := New(table)
	if got := r.Lookup("hola amigo").Topic; got != models.TopicGreeting {
		t.Errorf("expected greeting, got %q", got)
	}
	if got := r.Lookup("hello").Topic; got != models.TopicDefault {
		t.Errorf("expected default for a trigger not in the custom table, got %q", got)
	}
}

func TestNewCopiesTable(t *testing.T) {
	table := knowledge.Default()
	r := New(table)
	table.Rules[0].Triggers[0] = "zzz"
	table.Responses[models.TopicGreeting] = "changed"

	got := r.Lookup("hi")
	if got.Topic != models.TopicGreeting {
		t.Fatalf("expected greeting, got %q", got.Topic)
	}
	if got.Response == "changed" {
		t.Error("resolver should not observe later table changes")
	}
}
