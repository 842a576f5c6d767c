package models

import "time"

// BusinessProfile is the structured profile extracted from a project's website.
// Every field is optional; a re-extraction replaces all of them.
type BusinessProfile struct {
	ProjectID string `json:"projectId"`

	BusinessName        Text `json:"businessName"`
	Industry            Text `json:"industry"`
	Description         Text `json:"description"`
	Products            List `json:"products"`
	Services            List `json:"services"`
	Pricing             Text `json:"pricing"`
	Guarantees          List `json:"guarantees"`
	Benefits            List `json:"benefits"`
	Features            List `json:"features"`
	BrandTone           Text `json:"brandTone"`
	BrandColors         List `json:"brandColors"`
	CTAPatterns         List `json:"ctaPatterns"`
	TargetAudience      Text `json:"targetAudience"`
	PainPoints          List `json:"painPoints"`
	Testimonials        List `json:"testimonials"`
	Offers              List `json:"offers"`
	ServiceAreas        List `json:"serviceAreas"`
	SocialLinks         List `json:"socialLinks"`
	ContactInfo         Text `json:"contactInfo"`
	Competitors         List `json:"competitors"`
	SEOKeywords         List `json:"seoKeywords"`
	MetaTitles          List `json:"metaTitles"`
	MetaDescriptions    List `json:"metaDescriptions"`
	SEOIssues           List `json:"seoIssues"`
	LayoutDescription   Text `json:"layoutDescription"`
	Mistakes            List `json:"mistakes"`
	Opportunities       List `json:"opportunities"`
	UniqueSellingPoints List `json:"uniqueSellingPoints"`

	RawJSON     string     `json:"rawJson,omitempty"`
	ExtractedAt *time.Time `json:"extractedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FieldKind tells whether a profile field holds a string or a list of strings.
type FieldKind int

const (
	KindText FieldKind = iota
	KindList
)

func (k FieldKind) String() string {
	if k == KindList {
		return "string[]"
	}
	return "string"
}

// Field describes one profile field: its JSON key, storage column and kind.
type Field struct {
	Key    string
	Column string
	Kind   FieldKind
}

// ProfileFields lists the profile fields in schema order.
var ProfileFields = []Field{
	{"businessName", "business_name", KindText},
	{"industry", "industry", KindText},
	{"description", "description", KindText},
	{"products", "products", KindList},
	{"services", "services", KindList},
	{"pricing", "pricing", KindText},
	{"guarantees", "guarantees", KindList},
	{"benefits", "benefits", KindList},
	{"features", "features", KindList},
	{"brandTone", "brand_tone", KindText},
	{"brandColors", "brand_colors", KindList},
	{"ctaPatterns", "cta_patterns", KindList},
	{"targetAudience", "target_audience", KindText},
	{"painPoints", "pain_points", KindList},
	{"testimonials", "testimonials", KindList},
	{"offers", "offers", KindList},
	{"serviceAreas", "service_areas", KindList},
	{"socialLinks", "social_links", KindList},
	{"contactInfo", "contact_info", KindText},
	{"competitors", "competitors", KindList},
	{"seoKeywords", "seo_keywords", KindList},
	{"metaTitles", "meta_titles", KindList},
	{"metaDescriptions", "meta_descriptions", KindList},
	{"seoIssues", "seo_issues", KindList},
	{"layoutDescription", "layout_description", KindText},
	{"mistakes", "mistakes", KindList},
	{"opportunities", "opportunities", KindList},
	{"uniqueSellingPoints", "unique_selling_points", KindList},
}

// TextFields returns pointers to the scalar fields keyed by JSON key.
func (p *BusinessProfile) TextFields() map[string]*Text {
	return map[string]*Text{
		"businessName":      &p.BusinessName,
		"industry":          &p.Industry,
		"description":       &p.Description,
		"pricing":           &p.Pricing,
		"brandTone":         &p.BrandTone,
		"targetAudience":    &p.TargetAudience,
		"contactInfo":       &p.ContactInfo,
		"layoutDescription": &p.LayoutDescription,
	}
}

// ListFields returns pointers to the list fields keyed by JSON key.
func (p *BusinessProfile) ListFields() map[string]*List {
	return map[string]*List{
		"products":            &p.Products,
		"services":            &p.Services,
		"guarantees":          &p.Guarantees,
		"benefits":            &p.Benefits,
		"features":            &p.Features,
		"brandColors":         &p.BrandColors,
		"ctaPatterns":         &p.CTAPatterns,
		"painPoints":          &p.PainPoints,
		"testimonials":        &p.Testimonials,
		"offers":              &p.Offers,
		"serviceAreas":        &p.ServiceAreas,
		"socialLinks":         &p.SocialLinks,
		"competitors":         &p.Competitors,
		"seoKeywords":         &p.SEOKeywords,
		"metaTitles":          &p.MetaTitles,
		"metaDescriptions":    &p.MetaDescriptions,
		"seoIssues":           &p.SEOIssues,
		"mistakes":            &p.Mistakes,
		"opportunities":       &p.Opportunities,
		"uniqueSellingPoints": &p.UniqueSellingPoints,
	}
}

// SetCount returns how many fields hold a non-null value.
func (p *BusinessProfile) SetCount() int {
	n := 0
	for _, t := range p.TextFields() {
		if t.Valid {
			n++
		}
	}
	for _, l := range p.ListFields() {
		if *l != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the profile has never been populated.
func (p *BusinessProfile) IsEmpty() bool {
	return p.ExtractedAt == nil && p.SetCount() == 0
}

// ProjectDetail is a project together with its profile, which may be nil.
type ProjectDetail struct {
	Project
	Profile *BusinessProfile `json:"profile"`
}
