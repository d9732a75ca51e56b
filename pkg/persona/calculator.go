package persona

import "github.com/ethpandaops/persona/pkg/records"

type categoryKey struct {
	targetType     string
	targetCategory string
}

type topicGroupKey struct {
	topicID   string
	groupName string
}

type scenarioKey struct {
	taskType  string
	scoutType string
}

//nolint:gochecknoglobals // Stateless tally definitions shared by every calculation
var (
	targetTally = Tally[string]{
		Extract: func(task *records.Task, _ *records.Target) []string {
			return []string{task.TargetID}
		},
		Denominator: DenominatorTasks,
	}

	regionTally = Tally[string]{
		Extract: func(_ *records.Task, target *records.Target) []string {
			if target == nil {
				return nil
			}
			return []string{target.TargetAreaType}
		},
		Denominator: DenominatorContributions,
	}

	categoryTally = Tally[categoryKey]{
		Extract: func(_ *records.Task, target *records.Target) []categoryKey {
			if target == nil {
				return nil
			}
			return []categoryKey{{targetType: target.TargetType, targetCategory: target.TargetCategory}}
		},
		Denominator: DenominatorContributions,
		Limit:       TopN,
	}

	// A task fans out to one key per group of its target.
	topicGroupTally = Tally[topicGroupKey]{
		Extract: func(task *records.Task, target *records.Target) []topicGroupKey {
			if target == nil || len(target.GroupList) == 0 {
				return []topicGroupKey{{topicID: task.TopicID, groupName: NoGroupLabel}}
			}

			keys := make([]topicGroupKey, 0, len(target.GroupList))
			for _, group := range target.GroupList {
				keys = append(keys, topicGroupKey{topicID: task.TopicID, groupName: group.GroupName})
			}

			return keys
		},
		Denominator: DenominatorContributions,
		Limit:       TopN,
	}

	scenarioTally = Tally[scenarioKey]{
		Extract: func(task *records.Task, _ *records.Target) []scenarioKey {
			return []scenarioKey{{taskType: task.TaskType, scoutType: task.ScoutType}}
		},
		Denominator: DenominatorTasks,
		Limit:       TopN,
	}
)

// CalculateTags computes every tag for one user's tasks. targets are the targets
// related to those tasks; tasks referencing any other target count as unresolved.
func CalculateTags(tasks []records.Task, targets []records.Target) Tags {
	index := NewTargetIndex(targets)

	return Tags{
		RequestFrequency:        RequestFrequency{TotalCount: len(tasks)},
		TargetProportion:        targetProportion(tasks, index),
		RegionProportion:        regionProportion(tasks, index),
		PreferredTargetCategory: preferredTargetCategory(tasks, index),
		PreferredTopicGroup:     preferredTopicGroup(tasks, index),
		PreferredScoutScenario:  preferredScoutScenario(tasks, index),
	}
}

func targetProportion(tasks []records.Task, index TargetIndex) TargetProportion {
	result := targetTally.Run(tasks, index)

	shares := make([]TargetShare, 0, len(result.Entries))
	for _, e := range result.Entries {
		shares = append(shares, TargetShare{TargetID: e.Key, Count: e.Count, Percentage: e.Percentage})
	}

	return TargetProportion{TotalTargets: result.Distinct, TopTargets: shares}
}

func regionProportion(tasks []records.Task, index TargetIndex) RegionProportion {
	result := regionTally.Run(tasks, index)
	if result.Total == 0 {
		return RegionProportion{TopRegions: []RegionShare{}}
	}

	shares := make([]RegionShare, 0, len(result.Entries))
	for _, e := range result.Entries {
		shares = append(shares, RegionShare{Region: e.Key, Count: e.Count, Percentage: e.Percentage})
	}

	return RegionProportion{TotalRegions: result.Distinct, TopRegions: shares}
}

func preferredTargetCategory(tasks []records.Task, index TargetIndex) PreferredTargetCategory {
	result := categoryTally.Run(tasks, index)
	if result.Total == 0 {
		return PreferredTargetCategory{Top3Categories: []CategoryShare{}}
	}

	shares := make([]CategoryShare, 0, len(result.Entries))
	for _, e := range result.Entries {
		shares = append(shares, CategoryShare{
			TargetType:     e.Key.targetType,
			TargetCategory: e.Key.targetCategory,
			Count:          e.Count,
			Percentage:     e.Percentage,
		})
	}

	return PreferredTargetCategory{Top3Categories: shares, TotalCombinations: result.Distinct}
}

func preferredTopicGroup(tasks []records.Task, index TargetIndex) PreferredTopicGroup {
	result := topicGroupTally.Run(tasks, index)
	if result.Total == 0 {
		return PreferredTopicGroup{Top3Combinations: []TopicGroupShare{}}
	}

	shares := make([]TopicGroupShare, 0, len(result.Entries))
	for _, e := range result.Entries {
		shares = append(shares, TopicGroupShare{
			TopicID:    e.Key.topicID,
			GroupName:  e.Key.groupName,
			Count:      e.Count,
			Percentage: e.Percentage,
		})
	}

	return PreferredTopicGroup{Top3Combinations: shares, TotalCombinations: result.Distinct}
}

func preferredScoutScenario(tasks []records.Task, index TargetIndex) PreferredScoutScenario {
	result := scenarioTally.Run(tasks, index)
	if result.Total == 0 {
		return PreferredScoutScenario{Top3Scenarios: []ScenarioShare{}}
	}

	shares := make([]ScenarioShare, 0, len(result.Entries))
	for _, e := range result.Entries {
		shares = append(shares, ScenarioShare{
			TaskType:   e.Key.taskType,
			ScoutType:  e.Key.scoutType,
			Count:      e.Count,
			Percentage: e.Percentage,
		})
	}

	return PreferredScoutScenario{Top3Scenarios: shares, TotalCombinations: result.Distinct}
}
