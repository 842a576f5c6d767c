package generation

import (
	"strings"

	"github.com/hyperjump/zodiac/internal/models"
)

// BuildProfileSummary renders the fixed-shape profile block that heads every
// generation prompt. Non-blank details win over the matching profile field;
// missing values render as placeholders, never as null.
func BuildProfileSummary(p *models.BusinessProfile, details *models.OptionalDetails) string {
	if p == nil {
		p = &models.BusinessProfile{}
	}
	if details == nil {
		details = &models.OptionalDetails{}
	}

	lines := []struct{ label, value string }{
		{"Business Name", p.BusinessName.Or("Unknown")},
		{"Industry", p.Industry.Or("Various")},
		{"Description", p.Description.Or("N/A")},
		{"Products", p.Products.Join(", ", "N/A")},
		{"Services", p.Services.Join(", ", "N/A")},
		{"Pricing", prefer(details.PricePoint, p.Pricing.Or("Custom"))},
		{"Target Audience", prefer(details.TargetAudience, p.TargetAudience.Or("General"))},
		{"Brand Tone", prefer(details.BrandTone, p.BrandTone.Or("Professional"))},
		{"Main Offer", prefer(details.MainOffer, p.Offers.Join(", ", "N/A"))},
		{"Main Goal", prefer(details.MainGoal, "Not specified")},
		{"Benefits", p.Benefits.Join(", ", "N/A")},
		{"Features", p.Features.Join(", ", "N/A")},
		{"Pain Points", p.PainPoints.Join(", ", "N/A")},
		{"Unique Selling Points", p.UniqueSellingPoints.Join(", ", "N/A")},
		{"Guarantees", p.Guarantees.Join(", ", "N/A")},
		{"Testimonials", p.Testimonials.Join(" | ", "N/A")},
		{"Service Areas", p.ServiceAreas.Join(", ", "N/A")},
		{"CTA Patterns", p.CTAPatterns.Join(", ", "N/A")},
		{"Competitors", p.Competitors.Join(", ", "N/A")},
		{"SEO Keywords", p.SEOKeywords.Join(", ", "N/A")},
		{"Contact Info", p.ContactInfo.Or("N/A")},
	}

	var b strings.Builder
	b.WriteString("BUSINESS PROFILE:\n")
	for _, l := range lines {
		b.WriteString(l.label)
		b.WriteString(": ")
		b.WriteString(l.value)
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func prefer(override, fallback string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	return fallback
}

// BuildPrompt assembles the generation prompt.
func BuildPrompt(summary, instruction, language string) string {
	return summary + "\n\n" + instruction + "\n\nLanguage: " + language + "\n\nGenerate the content now:"
}
