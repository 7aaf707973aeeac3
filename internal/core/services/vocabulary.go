package services

// referenceTags is the canonical tag vocabulary that expansion maps onto.
// Grouped by theme; not mutated at runtime. Each entry is embedded once
// per process and cached.
var referenceTags = []string{
	// Payment & Commerce
	"payments", "payment", "checkout", "billing", "stripe", "paypal", "commerce", "ecommerce", "subscription", "invoicing",

	// Analytics & Data
	"analytics", "tracking", "metrics", "statistics", "stats", "insights", "reporting", "dashboard", "data", "visualization",

	// Productivity & Workflow
	"productivity", "automation", "workflow", "efficiency", "tools", "task-management", "project-management", "collaboration",

	// AI & ML
	"ai", "artificial-intelligence", "machine-learning", "ml", "llm", "gpt", "chatbot", "nlp", "deep-learning",

	// Developer Tools
	"developer", "dev", "development", "coding", "programming", "api", "sdk", "devtools", "debugging", "testing",

	// Design
	"design", "ui", "ux", "graphics", "visual", "figma", "prototyping", "wireframe", "mockup", "illustration",

	// Marketing & Growth
	"marketing", "seo", "advertising", "growth", "campaigns", "email-marketing", "social-media", "content-marketing", "lead-generation",

	// SaaS & Cloud
	"saas", "software", "cloud", "platform", "service", "infrastructure", "hosting", "deployment",

	// Social & Communication
	"social", "community", "network", "team", "messaging", "chat", "video-conferencing", "communication",

	// Security & Auth
	"security", "auth", "authentication", "privacy", "encryption", "authorization", "access-control", "compliance",

	// Content & Media
	"content", "cms", "blog", "publishing", "media", "video", "audio", "podcast", "streaming",

	// E-learning & Education
	"education", "learning", "course", "training", "tutorial", "teaching", "elearning", "online-course",

	// Sales & CRM
	"sales", "crm", "customer-relationship", "leads", "pipeline", "customer-management", "sales-automation",

	// Support & Help
	"support", "customer-support", "helpdesk", "tickets", "chat-support", "knowledge-base", "faq",

	// Finance & Accounting
	"finance", "accounting", "bookkeeping", "expenses", "budgeting", "tax", "financial",

	// HR & Recruiting
	"hr", "human-resources", "recruiting", "hiring", "onboarding", "talent", "recruitment",

	// Mobile & Apps
	"mobile", "ios", "android", "app", "application", "mobile-app", "progressive-web-app", "pwa",

	// Web & Frontend
	"web", "frontend", "backend", "fullstack", "javascript", "react", "vue", "angular", "web-development",

	// Database & Storage
	"database", "storage", "sql", "nosql", "data-storage", "backup", "data-management",

	// Monitoring & Observability
	"monitoring", "observability", "logging", "error-tracking", "performance", "uptime", "alerts",
}

// ReferenceTags returns the canonical tag vocabulary. Useful for debugging.
func ReferenceTags() []string {
	out := make([]string, len(referenceTags))
	copy(out, referenceTags)
	return out
}
