// Package records defines the task and target records consumed by persona generation.
package records

// Task is one historical reconnaissance request.
type Task struct {
	ReqID          string  `json:"req_id" yaml:"req_id"`
	TopicID        string  `json:"topic_id" yaml:"topic_id"`
	ReqUnit        string  `json:"req_unit" yaml:"req_unit"`
	ReqGroup       string  `json:"req_group" yaml:"req_group"`
	ReqStartTime   string  `json:"req_start_time" yaml:"req_start_time"`
	ReqEndTime     string  `json:"req_end_time" yaml:"req_end_time"`
	TaskType       string  `json:"task_type" yaml:"task_type"`
	TargetID       string  `json:"target_id" yaml:"target_id"`
	CountryName    string  `json:"country_name" yaml:"country_name"`
	TargetPriority float64 `json:"target_priority" yaml:"target_priority"`
	IsEmcon        string  `json:"is_emcon" yaml:"is_emcon"`
	ScoutType      string  `json:"scout_type" yaml:"scout_type"`
}

// UserKey returns the requester identity the task is grouped under.
func (t *Task) UserKey() string {
	return t.ReqUnit + "_" + t.ReqGroup
}

// Target describes a reconnaissance objective referenced by tasks.
type Target struct {
	TargetID       string       `json:"target_id" yaml:"target_id"`
	TargetName     string       `json:"target_name" yaml:"target_name"`
	TargetType     string       `json:"target_type" yaml:"target_type"`
	TargetCategory string       `json:"target_category" yaml:"target_category"`
	TargetPriority float64      `json:"target_priority" yaml:"target_priority"`
	TargetAreaType string       `json:"target_area_type" yaml:"target_area_type"`
	GroupList      []Group      `json:"group_list" yaml:"group_list"`
	TrajectoryList []Trajectory `json:"trajectory_list" yaml:"trajectory_list"`
}

// Group attaches a target to a named working group.
type Group struct {
	GroupName string `json:"group_name" yaml:"group_name"`
	Source    string `json:"source" yaml:"source"`
	Status    string `json:"status" yaml:"status"`
}

// Trajectory is a single observed position of a target.
type Trajectory struct {
	Lon          string `json:"lon" yaml:"lon"`
	Lat          string `json:"lat" yaml:"lat"`
	Alt          string `json:"alt" yaml:"alt"`
	PointTime    string `json:"point_time" yaml:"point_time"`
	Speed        string `json:"speed" yaml:"speed"`
	Heading      string `json:"heading" yaml:"heading"`
	Seq          string `json:"seq" yaml:"seq"`
	ElectSilence string `json:"elect_silence" yaml:"elect_silence"`
}
