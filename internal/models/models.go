// Package models defines the core data structures for PortfolioBot.
//
// It includes the response topics, keyword rules and transcript messages shared
// by the resolver, the knowledge table and the conversation session.
package models

import "time"

// Topic identifies one canned-response category.
type Topic string

const (
	// TopicGreeting answers hellos.
	TopicGreeting Topic = "greeting"
	// TopicServiceMern describes MERN/PERN web application work.
	TopicServiceMern Topic = "service_mern"
	// TopicServiceJava describes Java enterprise backend work.
	TopicServiceJava Topic = "service_java"
	// TopicServiceAI describes chatbot and automation work.
	TopicServiceAI Topic = "service_ai"
	// TopicPricing answers cost and budget questions.
	TopicPricing Topic = "pricing"
	// TopicTeam describes who is behind the portfolio.
	TopicTeam Topic = "team"
	// TopicTimeline answers delivery time questions.
	TopicTimeline Topic = "timeline"
	// TopicLocation answers where the team is based.
	TopicLocation Topic = "location"
	// TopicContact lists the contact channels.
	TopicContact Topic = "contact"
	// TopicDefault is the fallback when no rule matches.
	TopicDefault Topic = "default"
)

// AllTopics lists every topic in declaration order.
var AllTopics = []Topic{
	TopicGreeting,
	TopicServiceMern,
	TopicServiceJava,
	TopicServiceAI,
	TopicPricing,
	TopicTeam,
	TopicTimeline,
	TopicLocation,
	TopicContact,
	TopicDefault,
}

// IsValidTopic checks if the given topic is one of the known topics.
func IsValidTopic(t Topic) bool {
	switch t {
	case TopicGreeting, TopicServiceMern, TopicServiceJava, TopicServiceAI, TopicPricing,
		TopicTeam, TopicTimeline, TopicLocation, TopicContact, TopicDefault:
		return true
	default:
		return false
	}
}

// KeywordRule pairs a topic with the substrings that trigger it.
// Rules are evaluated in table order; the first rule with a matching trigger wins.
type KeywordRule struct {
	Topic    Topic    `yaml:"topic" json:"topic"`
	Triggers []string `yaml:"triggers" json:"triggers"`
}

// Resolution is the outcome of looking up one input against the rule table.
type Resolution struct {
	Topic    Topic  `json:"topic"`
	Trigger  string `json:"trigger,omitempty"` // empty when the default topic was used
	Response string `json:"response"`
}

// Sender identifies who authored a transcript entry.
type Sender string

const (
	// SenderUser marks text typed by the visitor.
	SenderUser Sender = "user"
	// SenderBot marks a canned reply.
	SenderBot Sender = "bot"
)

// Message is one immutable transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// QuickAction is a canned query offered as a one-click shortcut.
type QuickAction struct {
	Label string `yaml:"label" json:"label"`
	Query string `yaml:"query" json:"query"`
}

// Profile holds the contact details of the portfolio owner.
type Profile struct {
	Name         string `yaml:"name" json:"name"`
	Email        string `yaml:"email" json:"email"`
	WhatsApp     string `yaml:"whatsapp" json:"whatsapp"`
	WhatsAppLink string `yaml:"whatsapp_link" json:"whatsapp_link"`
}
