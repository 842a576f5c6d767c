package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Project identifies one analysis run over a website.
type Project struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId,omitempty" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	WebsiteURL string    `json:"websiteUrl" db:"website_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// ProjectInput is the input for creating a project.
type ProjectInput struct {
	WebsiteURL string `json:"websiteUrl"`
	Name       string `json:"name,omitempty"`
	UserID     string `json:"userId,omitempty"`
}

// Validate checks the website URL and defaults the name to the URL host.
func (in *ProjectInput) Validate() error {
	in.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	if in.WebsiteURL == "" {
		return fmt.Errorf("websiteUrl is required")
	}
	u, err := ParseWebsiteURL(in.WebsiteURL)
	if err != nil {
		return err
	}
	in.WebsiteURL = u.String()
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = u.Host
	}
	return nil
}

// ProjectUpdate edits the mutable attributes of a project. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name       *string `json:"name,omitempty"`
	WebsiteURL *string `json:"websiteUrl,omitempty"`
}

// Validate rejects empty updates and malformed URLs.
func (up *ProjectUpdate) Validate() error {
	if up.Name == nil && up.WebsiteURL == nil {
		return fmt.Errorf("nothing to update")
	}
	if up.Name != nil {
		name := strings.TrimSpace(*up.Name)
		if name == "" {
			return fmt.Errorf("name cannot be empty")
		}
		up.Name = &name
	}
	if up.WebsiteURL != nil {
		u, err := ParseWebsiteURL(*up.WebsiteURL)
		if err != nil {
			return err
		}
		s := u.String()
		up.WebsiteURL = &s
	}
	return nil
}

// ParseWebsiteURL parses an absolute http(s) URL. A missing scheme defaults to https.
func ParseWebsiteURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("websiteUrl is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid websiteUrl: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid websiteUrl: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid websiteUrl: missing host")
	}
	return u, nil
}
