package persona

import "github.com/ethpandaops/persona/pkg/records"

// UserGroup holds one requester's tasks and the distinct targets they reference.
type UserGroup struct {
	UserID string
	Tasks  []records.Task
	// Targets are the resolved targets in first-encounter order, de-duplicated by target id.
	Targets []records.Target
	// Unresolved counts tasks whose target id is missing from the index.
	Unresolved int

	seen map[string]struct{}
}

// GroupByUser partitions tasks by requester identity. Groups are returned in the
// order their identity is first encountered, tasks within a group keep input order.
func GroupByUser(tasks []records.Task, index TargetIndex) []*UserGroup {
	groups := make([]*UserGroup, 0)
	byKey := make(map[string]*UserGroup)

	for i := range tasks {
		task := &tasks[i]
		key := task.UserKey()

		group, ok := byKey[key]
		if !ok {
			group = &UserGroup{
				UserID: key,
				seen:   make(map[string]struct{}),
			}
			byKey[key] = group
			groups = append(groups, group)
		}

		group.Tasks = append(group.Tasks, *task)

		target := index.Lookup(task.TargetID)
		if target == nil {
			group.Unresolved++
			continue
		}

		if _, dup := group.seen[target.TargetID]; dup {
			continue
		}

		group.seen[target.TargetID] = struct{}{}
		group.Targets = append(group.Targets, *target)
	}

	return groups
}
