package intel

// BrandProfile is the business intelligence artifact for one domain.
type BrandProfile struct {
	Company             Company         `json:"company"`
	Founders            []Founder       `json:"founders"`
	SocialMediaAccounts []SocialAccount `json:"socialMediaAccounts"`
	URL                 string          `json:"url"`
	Timestamp           string          `json:"timestamp"`
	Provenance          string          `json:"provenance"`
}

// Company describes the analyzed business.
type Company struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Industry       string   `json:"industry"`
	TargetAudience []string `json:"targetAudience"`
}

// Founder is one extracted founder or leadership record.
type Founder struct {
	Name                 string   `json:"name"`
	Role                 string   `json:"role,omitempty"`
	Bio                  string   `json:"bio,omitempty"`
	Education            string   `json:"education,omitempty"`
	Experience           string   `json:"experience,omitempty"`
	Achievements         []string `json:"achievements,omitempty"`
	Expertise            []string `json:"expertise,omitempty"`
	SocialMedia          string   `json:"socialMedia,omitempty"`
	SourceURL            string   `json:"sourceUrl,omitempty"`
	ExtractionConfidence string   `json:"extractionConfidence,omitempty"`
}

// SocialAccount is one detected social media presence.
type SocialAccount struct {
	Platform    string `json:"platform"`
	URL         string `json:"url"`
	Username    string `json:"username,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Verified    bool   `json:"verified"`
	Followers   int    `json:"followers"`
	Description string `json:"description,omitempty"`
}
