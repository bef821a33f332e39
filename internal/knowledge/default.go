package knowledge

import (
	"maps"
	"slices"

	"github.com/BTreeMap/PortfolioBot/internal/models"
)

var defaultProfile = models.Profile{
	Name:         "Sujal Pandey",
	Email:        "pandeysujal511@gmail.com",
	WhatsApp:     "+917470706635",
	WhatsAppLink: "https://wa.me/917470706635",
}

const greetingText = "Hi! I'm Sujal's AI Assistant. I can help you learn about our services, pricing, and how we can help your business. What would you like to know?"

// defaultRules is the shipped rule order. Overlapping keywords resolve to the
// earlier topic, e.g. "how long for a website" is a MERN question, not a timeline one.
var defaultRules = []models.KeywordRule{
	{Topic: models.TopicGreeting, Triggers: []string{"hi", "hello", "hey"}},
	{Topic: models.TopicServiceMern, Triggers: []string{"mern", "react", "website", "web app"}},
	{Topic: models.TopicServiceJava, Triggers: []string{"java", "spring", "backend", "api"}},
	{Topic: models.TopicServiceAI, Triggers: []string{"ai", "chatbot", "automation", "gpt"}},
	{Topic: models.TopicPricing, Triggers: []string{"price", "pricing", "cost", "budget"}},
	{Topic: models.TopicTeam, Triggers: []string{"team", "who", "about"}},
	{Topic: models.TopicTimeline, Triggers: []string{"time", "timeline", "deadline", "how long"}},
	{Topic: models.TopicLocation, Triggers: []string{"location", "where", "based"}},
	{Topic: models.TopicContact, Triggers: []string{"contact", "email", "whatsapp", "reach"}},
}

var defaultResponses = map[models.Topic]string{
	models.TopicGreeting:    greetingText,
	models.TopicServiceMern: "We build full-stack MERN/PERN applications including business websites, admin panels, and MVPs. Our team ensures secure authentication, scalable architecture, and modern UI/UX. Typical timeline: 2-4 weeks depending on complexity.",
	models.TopicServiceJava: "Our Java enterprise solutions use Spring Boot with JWT/OAuth2 security, microservices architecture, and production-ready APIs. Perfect for businesses needing robust, scalable backend systems. Timeline: 3-6 weeks.",
	models.TopicServiceAI:   "We create intelligent AI chatbots using GPT-4, RAG on your custom data, and integrate with websites & WhatsApp. Great for lead automation, customer support, and CRM workflows. Timeline: 2-3 weeks.",
	models.TopicPricing:     "Our pricing ranges from ₹25,000 to ₹50,000 depending on project complexity. MERN/PERN apps start at ₹25k, Java enterprise systems at ₹35k, and AI chatbots at ₹30k. We offer flexible payment plans for startups.",
	models.TopicTeam:        "Sujal leads a team of 5 experienced developers specializing in MERN, Java, and AI technologies. We're based in Bhopal, India and work with clients globally.",
	models.TopicTimeline:    "Most projects are completed within 2-6 weeks. MVPs and basic apps: 2-3 weeks. Complex enterprise systems: 4-6 weeks. We provide weekly updates and ensure quality delivery.",
	models.TopicLocation:    "We're based in Bhopal, India. We work with clients both locally and internationally, offering remote collaboration through video calls and project management tools.",
	models.TopicContact:     "You can reach Sujal directly via:\n\nEmail: pandeysujal511@gmail.com\nWhatsApp: +91 7470706635\n\nFeel free to message on WhatsApp for a quick response!",
	models.TopicDefault:     "I can help you with information about our services (MERN, Java, AI chatbots), pricing, timelines, or connect you with Sujal. What would you like to know?",
}

var defaultQuickActions = []models.QuickAction{
	{Label: "Services", Query: "Tell me about your services"},
	{Label: "Pricing", Query: "What is your pricing?"},
	{Label: "Contact", Query: "How can I contact you?"},
}

// Default returns a fresh copy of the built-in portfolio table.
// Callers may modify the result without affecting later calls.
func Default() *Table {
	rules := make([]models.KeywordRule, len(defaultRules))
	for i, rule := range defaultRules {
		rules[i] = models.KeywordRule{Topic: rule.Topic, Triggers: slices.Clone(rule.Triggers)}
	}
	return &Table{
		Welcome:      greetingText,
		Profile:      defaultProfile,
		Rules:        rules,
		Responses:    maps.Clone(defaultResponses),
		QuickActions: slices.Clone(defaultQuickActions),
	}
}
