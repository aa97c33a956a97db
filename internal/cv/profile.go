// Package cv holds the canonical candidate profile together with the
// normalizer and validator every extraction path goes through.
package cv

import "time"

type Method string

const (
	MethodModelStaged            Method = "model-staged"
	MethodHeuristic              Method = "heuristic"
	MethodHeuristicLowConfidence Method = "heuristic-low-confidence"
	MethodMinimalEmergency       Method = "minimal-emergency"
)

type ConfidenceLevel string

const (
	ConfidenceVeryLow  ConfidenceLevel = "very-low"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceVeryHigh ConfidenceLevel = "very-high"
)

const (
	// PlaceholderName is used whenever no plausible name could be read.
	PlaceholderName = "Expert Candidate"
	// GenericDomain is the taxonomy fallback.
	GenericDomain = "IT"

	MaxSkills          = 12
	MaxYearsExperience = 50
	MaxSummaryRunes    = 500
)

type WorkEntry struct {
	Role        string `json:"role" mapstructure:"role"`
	Employer    string `json:"employer" mapstructure:"employer"`
	Period      string `json:"period" mapstructure:"period"`
	Description string `json:"description" mapstructure:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree" mapstructure:"degree"`
	Institution string `json:"institution" mapstructure:"institution"`
	Year        string `json:"year" mapstructure:"year"`
}

// StageOutcome records how one extraction stage produced its fields.
type StageOutcome struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

type Metadata struct {
	AnalysisID        string          `json:"analysisId"`
	Method            Method          `json:"method"`
	ValidationScore   int             `json:"validationScore"`
	ValidationDetails []string        `json:"validationDetails"`
	ProcessedAt       time.Time       `json:"processedAt"`
	SourceTextLength  int             `json:"sourceTextLength"`
	ConfidenceLevel   ConfidenceLevel `json:"confidenceLevel"`
	Stages            []StageOutcome  `json:"stages,omitempty"`
}

// CandidateProfile is the structured CV. Values are never mutated after the
// orchestrator returns them; derive new records instead.
type CandidateProfile struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	Skills          []string         `json:"skills"`
	YearsExperience int              `json:"yearsExperience"`
	WorkHistory     []WorkEntry      `json:"workHistory"`
	Education       []EducationEntry `json:"education"`
	Languages       []string         `json:"languages"`
	Domain          string           `json:"domain"`
	Location        string           `json:"location"`
	Summary         string           `json:"summary"`
	Metadata        Metadata         `json:"analysisMetadata"`
}

// Defaults are the configured fallbacks for region and language.
type Defaults struct {
	Language string `mapstructure:"language"`
	Region   string `mapstructure:"region"`
}

func DefaultDefaults() Defaults {
	return Defaults{Language: "Français", Region: "France"}
}

func (d Defaults) withFallbacks() Defaults {
	base := DefaultDefaults()
	if d.Language == "" {
		d.Language = base.Language
	}
	if d.Region == "" {
		d.Region = base.Region
	}
	return d
}

// Emergency returns the fixed minimal record used when every extraction
// path failed.
func Emergency(defaults Defaults) CandidateProfile {
	defaults = defaults.withFallbacks()
	return CandidateProfile{
		Name:        PlaceholderName,
		Skills:      []string{},
		WorkHistory: []WorkEntry{},
		Education:   []EducationEntry{},
		Languages:   []string{defaults.Language},
		Domain:      GenericDomain,
		Location:    defaults.Region,
		Metadata: Metadata{
			Method:            MethodMinimalEmergency,
			ValidationScore:   0,
			ValidationDetails: []string{"emergency fallback: every extraction path failed"},
			ConfidenceLevel:   ConfidenceVeryLow,
		},
	}
}

// Clone returns a deep copy so callers can derive records without sharing slices.
func (p CandidateProfile) Clone() CandidateProfile {
	out := p
	out.Skills = append([]string{}, p.Skills...)
	out.WorkHistory = append([]WorkEntry{}, p.WorkHistory...)
	out.Education = append([]EducationEntry{}, p.Education...)
	out.Languages = append([]string{}, p.Languages...)
	out.Metadata.ValidationDetails = append([]string{}, p.Metadata.ValidationDetails...)
	if p.Metadata.Stages != nil {
		out.Metadata.Stages = append([]StageOutcome{}, p.Metadata.Stages...)
	}
	return out
}
