package prompts

import (
	"strings"

	"github.com/hyperjump/zodiac/internal/models"
)

var fieldHints = map[string]string{
	"businessName":        "the business or brand name",
	"industry":            "the industry or niche",
	"description":         "a 2-3 sentence description of what the business does",
	"products":            "products sold",
	"services":            "services offered",
	"pricing":             "pricing model and any prices shown",
	"guarantees":          "guarantees, warranties or risk reversals",
	"benefits":            "customer benefits",
	"features":            "product or service features",
	"brandTone":           "the tone of voice, e.g. friendly, authoritative, playful",
	"brandColors":         "brand colors, as names or hex codes",
	"ctaPatterns":         "calls to action used on the site",
	"targetAudience":      "who the business serves",
	"painPoints":          "problems the audience has that the business solves",
	"testimonials":        "customer testimonials or reviews, quoted",
	"offers":              "current offers, packages or promotions",
	"serviceAreas":        "geographic areas served",
	"socialLinks":         "social media profile URLs",
	"contactInfo":         "email, phone and address in one string",
	"competitors":         "likely competitors",
	"seoKeywords":         "keywords the site targets or should target",
	"metaTitles":          "page titles seen",
	"metaDescriptions":    "meta descriptions seen",
	"seoIssues":           "SEO problems detected",
	"layoutDescription":   "a short description of the page layout and structure",
	"mistakes":            "marketing or conversion mistakes on the site",
	"opportunities":       "marketing opportunities the business is missing",
	"uniqueSellingPoints": "what sets the business apart",
}

// ExtractionInstruction is the system instruction for profile extraction.
// It enumerates every profile key with its JSON kind.
func ExtractionInstruction() string {
	var b strings.Builder
	b.WriteString("You are a senior marketing strategist. Analyze the website content provided and extract a business profile.\n\n")
	b.WriteString("Reply with a single JSON object and nothing else. Use exactly these keys:\n")
	for _, f := range models.ProfileFields {
		b.WriteString("- \"")
		b.WriteString(f.Key)
		b.WriteString("\" (")
		b.WriteString(f.Kind.String())
		b.WriteString("): ")
		b.WriteString(fieldHints[f.Key])
		b.WriteString("\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Values are strings or arrays of strings as listed above.\n")
	b.WriteString("- When the content does not state something explicitly, infer it from the industry, offer and wording. ")
	b.WriteString("This applies especially to targetAudience, painPoints, competitors, opportunities and mistakes: ")
	b.WriteString("give your best professional judgment instead of leaving them out.\n")
	b.WriteString("- Use null only when nothing reasonable can be said.\n")
	b.WriteString("- Do not wrap the JSON in markdown fences or add commentary.\n")
	return b.String()
}
