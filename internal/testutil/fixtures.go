package testutil

import (
	"fmt"

	"github.com/ethpandaops/persona/pkg/records"
)

// TaskOption is a functional option for customizing test tasks.
type TaskOption func(*records.Task)

// WithUser sets the requesting unit and group.
func WithUser(unit, group string) TaskOption {
	return func(t *records.Task) {
		t.ReqUnit = unit
		t.ReqGroup = group
	}
}

// WithTarget sets the referenced target id.
func WithTarget(targetID string) TaskOption {
	return func(t *records.Task) {
		t.TargetID = targetID
	}
}

// WithStart sets the task start time.
func WithStart(start string) TaskOption {
	return func(t *records.Task) {
		t.ReqStartTime = start
	}
}

// WithTopic sets the topic id.
func WithTopic(topicID string) TaskOption {
	return func(t *records.Task) {
		t.TopicID = topicID
	}
}

// WithScenario sets the task type and scout type.
func WithScenario(taskType, scoutType string) TaskOption {
	return func(t *records.Task) {
		t.TaskType = taskType
		t.ScoutType = scoutType
	}
}

// NewTask creates a task for user A_B against TGT001 unless overridden.
func NewTask(reqID string, opts ...TaskOption) records.Task {
	task := records.Task{
		ReqID:          reqID,
		TopicID:        "TP001",
		ReqUnit:        "A",
		ReqGroup:       "B",
		ReqStartTime:   "2024-01-01 00:00:00",
		ReqEndTime:     "2024-01-01 12:00:00",
		TaskType:       "1",
		TargetID:       "TGT001",
		CountryName:    "country-a",
		TargetPriority: 0.5,
		IsEmcon:        "否",
		ScoutType:      "电子侦察",
	}

	for _, opt := range opts {
		opt(&task)
	}

	return task
}

// TargetOption is a functional option for customizing test targets.
type TargetOption func(*records.Target)

// WithArea sets the target area type.
func WithArea(area string) TargetOption {
	return func(t *records.Target) {
		t.TargetAreaType = area
	}
}

// WithCategory sets the target type and category.
func WithCategory(targetType, category string) TargetOption {
	return func(t *records.Target) {
		t.TargetType = targetType
		t.TargetCategory = category
	}
}

// WithGroups replaces the target's groups with one group per name.
func WithGroups(names ...string) TargetOption {
	return func(t *records.Target) {
		t.GroupList = make([]records.Group, 0, len(names))
		for _, name := range names {
			t.GroupList = append(t.GroupList, records.Group{GroupName: name, Source: "电子侦察", Status: "活跃"})
		}
	}
}

// NewTarget creates a target with a single group unless overridden.
func NewTarget(targetID string, opts ...TargetOption) records.Target {
	target := records.Target{
		TargetID:       targetID,
		TargetName:     fmt.Sprintf("target %s", targetID),
		TargetType:     "港口",
		TargetCategory: "重要目标",
		TargetPriority: 0.8,
		TargetAreaType: "沿海",
		GroupList: []records.Group{
			{GroupName: "技术组A", Source: "电子侦察", Status: "活跃"},
		},
		TrajectoryList: []records.Trajectory{
			{Lon: "120.5", Lat: "30.1", Alt: "50", PointTime: "2024-01-01 00:00:00", Speed: "20", Heading: "90", Seq: "1", ElectSilence: "否"},
		},
	}

	for _, opt := range opts {
		opt(&target)
	}

	return target
}

// ScenarioTargets returns TGT001 (coastal) and TGT002 (mountain).
func ScenarioTargets() []records.Target {
	return []records.Target{
		NewTarget("TGT001", WithArea("沿海")),
		NewTarget("TGT002", WithArea("山区"), WithCategory("雷达站", "关键目标")),
	}
}

// ScenarioTasks returns three tasks from user A_B: two on TGT001 and one on TGT002.
func ScenarioTasks() []records.Task {
	return []records.Task{
		NewTask("REQ001", WithTarget("TGT001"), WithStart("2024-01-01 08:00:00")),
		NewTask("REQ002", WithTarget("TGT002"), WithStart("2024-02-01 08:00:00")),
		NewTask("REQ003", WithTarget("TGT001"), WithStart("2024-03-01 08:00:00")),
	}
}
