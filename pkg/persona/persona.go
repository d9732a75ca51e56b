package persona

import "time"

const (
	// AlgorithmStatisticalRules is the only algorithm personas are generated with
	AlgorithmStatisticalRules = "statistical_rules"
	// GenerationTimeLayout is the ISO-8601 layout of Persona.GenerationTime
	GenerationTimeLayout = "2006-01-02T15:04:05.000000"
)

// Persona is the tag set generated for one requester identity.
type Persona struct {
	UserID            string             `json:"user_id" yaml:"user_id"`
	PersonaTags       Tags               `json:"persona_tags" yaml:"persona_tags"`
	ConfidenceScore   float64            `json:"confidence_score" yaml:"confidence_score"`
	FeatureImportance map[string]float64 `json:"feature_importance" yaml:"feature_importance"`
	AlgorithmUsed     string             `json:"algorithm_used" yaml:"algorithm_used"`
	GenerationTime    string             `json:"generation_time" yaml:"generation_time"`
	// TargetID is kept for older consumers and is never set.
	TargetID *string `json:"target_id,omitempty" yaml:"target_id,omitempty"`
}

// Assemble computes a group's tags and wraps them in a Persona stamped with now.
// Statistical rules are deterministic, so confidence is always 1.
func Assemble(group *UserGroup, now time.Time) Persona {
	return NewPersona(group.UserID, CalculateTags(group.Tasks, group.Targets), now)
}

// NewPersona wraps computed tags in a Persona record.
func NewPersona(userID string, tags Tags, now time.Time) Persona {
	return Persona{
		UserID:            userID,
		PersonaTags:       tags,
		ConfidenceScore:   1.0,
		FeatureImportance: map[string]float64{},
		AlgorithmUsed:     AlgorithmStatisticalRules,
		GenerationTime:    now.Format(GenerationTimeLayout),
	}
}

// UserStats summarises one user group for observers.
type UserStats struct {
	UserID         string
	Tasks          int
	RelatedTargets int
	Unresolved     int
}

func statsFor(group *UserGroup) UserStats {
	return UserStats{
		UserID:         group.UserID,
		Tasks:          len(group.Tasks),
		RelatedTargets: len(group.Targets),
		Unresolved:     group.Unresolved,
	}
}
