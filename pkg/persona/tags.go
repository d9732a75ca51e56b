package persona

// Tag names as they appear in a persona's persona_tags mapping.
const (
	TagRequestFrequency        = "request_frequency"
	TagTargetProportion        = "target_proportion"
	TagRegionProportion        = "region_proportion"
	TagPreferredTargetCategory = "preferred_target_category"
	TagPreferredTopicGroup     = "preferred_topic_group"
	TagPreferredScoutScenario  = "preferred_scout_scenario"
)

// TopN is the length of the preferred_* rankings.
const TopN = 3

// NoGroupLabel stands in for the group name of tasks whose target has no groups.
const NoGroupLabel = "无分组"

// Tags is the full set of statistical tags computed for one user.
type Tags struct {
	RequestFrequency        RequestFrequency        `json:"request_frequency" yaml:"request_frequency"`
	TargetProportion        TargetProportion        `json:"target_proportion" yaml:"target_proportion"`
	RegionProportion        RegionProportion        `json:"region_proportion" yaml:"region_proportion"`
	PreferredTargetCategory PreferredTargetCategory `json:"preferred_target_category" yaml:"preferred_target_category"`
	PreferredTopicGroup     PreferredTopicGroup     `json:"preferred_topic_group" yaml:"preferred_topic_group"`
	PreferredScoutScenario  PreferredScoutScenario  `json:"preferred_scout_scenario" yaml:"preferred_scout_scenario"`
}

// RequestFrequency is the number of tasks a user requested.
type RequestFrequency struct {
	TotalCount int `json:"total_count" yaml:"total_count"`
}

// TargetShare is one target's share of a user's tasks.
type TargetShare struct {
	TargetID   string  `json:"target_id" yaml:"target_id"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// TargetProportion ranks every target a user referenced.
type TargetProportion struct {
	TotalTargets int           `json:"total_targets" yaml:"total_targets"`
	TopTargets   []TargetShare `json:"top_targets" yaml:"top_targets"`
}

// RegionShare is one area type's share of a user's resolved tasks.
type RegionShare struct {
	Region     string  `json:"region" yaml:"region"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// RegionProportion ranks every area type among a user's resolved tasks.
type RegionProportion struct {
	TotalRegions int           `json:"total_regions" yaml:"total_regions"`
	TopRegions   []RegionShare `json:"top_regions" yaml:"top_regions"`
}

// CategoryShare is one target type and category combination.
type CategoryShare struct {
	TargetType     string  `json:"target_type" yaml:"target_type"`
	TargetCategory string  `json:"target_category" yaml:"target_category"`
	Count          int     `json:"count" yaml:"count"`
	Percentage     float64 `json:"percentage" yaml:"percentage"`
}

// PreferredTargetCategory holds the top target type and category combinations.
type PreferredTargetCategory struct {
	Top3Categories    []CategoryShare `json:"top3_categories" yaml:"top3_categories"`
	TotalCombinations int             `json:"total_combinations,omitempty" yaml:"total_combinations,omitempty"`
}

// TopicGroupShare is one topic and group combination.
type TopicGroupShare struct {
	TopicID    string  `json:"topic_id" yaml:"topic_id"`
	GroupName  string  `json:"group_name" yaml:"group_name"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// PreferredTopicGroup holds the top topic and group combinations.
type PreferredTopicGroup struct {
	Top3Combinations  []TopicGroupShare `json:"top3_combinations" yaml:"top3_combinations"`
	TotalCombinations int               `json:"total_combinations,omitempty" yaml:"total_combinations,omitempty"`
}

// ScenarioShare is one task type and scout type combination.
type ScenarioShare struct {
	TaskType   string  `json:"task_type" yaml:"task_type"`
	ScoutType  string  `json:"scout_type" yaml:"scout_type"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// PreferredScoutScenario holds the top task type and scout type combinations.
type PreferredScoutScenario struct {
	Top3Scenarios     []ScenarioShare `json:"top3_scenarios" yaml:"top3_scenarios"`
	TotalCombinations int             `json:"total_combinations,omitempty" yaml:"total_combinations,omitempty"`
}
