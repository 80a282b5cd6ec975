package models

// Brand profile fields are stored as independently nullable JSONB columns.
// A nil pointer means the section is absent and must not be rendered.

type BrandVoice struct {
	Tone        string   `json:"tone,omitempty"`
	Style       string   `json:"style,omitempty"`
	Personality []string `json:"personality,omitempty"`
}

type TargetAudience struct {
	Demographics string   `json:"demographics,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	PainPoints   []string `json:"pain_points,omitempty"`
}

type BrandValues struct {
	Mission string   `json:"mission,omitempty"`
	Values  []string `json:"values,omitempty"`
}

type ContentGuidelines struct {
	Preferred []string `json:"preferred,omitempty"`
	Avoid     []string `json:"avoid,omitempty"`
	Themes    []string `json:"themes,omitempty"`
}

type ExamplePost struct {
	Content string `json:"content"`
	Notes   string `json:"notes,omitempty"`
}
