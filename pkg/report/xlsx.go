package report

import (
	"fmt"
	"io"

	"github.com/ethpandaops/persona/pkg/persona"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SheetSummary    = "Personas"
	SheetTargets    = "Targets"
	SheetRegions    = "Regions"
	SheetCategories = "Categories"
	SheetTopics     = "TopicGroups"
	SheetScenarios  = "ScoutScenarios"
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, sheet string, headers ...string) (*sheetWriter, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	if err := w.append(toAny(headers)...); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *sheetWriter) append(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}

	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return err
	}

	w.row++

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}

// WriteXLSX writes personas as a workbook with a summary sheet and one sheet per tag.
func WriteXLSX(w io.Writer, personas []persona.Persona) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary, err := newSheet(f, SheetSummary, "User", "Requests", "Targets", "Regions", "Algorithm", "Confidence", "Generated")
	if err != nil {
		return err
	}
	targets, err := newSheet(f, SheetTargets, "User", "Target", "Count", "Percentage")
	if err != nil {
		return err
	}
	regions, err := newSheet(f, SheetRegions, "User", "Region", "Count", "Percentage")
	if err != nil {
		return err
	}
	categories, err := newSheet(f, SheetCategories, "User", "Rank", "Target Type", "Target Category", "Count", "Percentage")
	if err != nil {
		return err
	}
	topics, err := newSheet(f, SheetTopics, "User", "Rank", "Topic", "Group", "Count", "Percentage")
	if err != nil {
		return err
	}
	scenarios, err := newSheet(f, SheetScenarios, "User", "Rank", "Task Type", "Scout Type", "Count", "Percentage")
	if err != nil {
		return err
	}

	for i := range personas {
		p := &personas[i]
		tags := &p.PersonaTags

		if err := summary.append(p.UserID, tags.RequestFrequency.TotalCount, tags.TargetProportion.TotalTargets,
			tags.RegionProportion.TotalRegions, p.AlgorithmUsed, p.ConfidenceScore, p.GenerationTime); err != nil {
			return err
		}

		for _, s := range tags.TargetProportion.TopTargets {
			if err := targets.append(p.UserID, s.TargetID, s.Count, s.Percentage); err != nil {
				return err
			}
		}

		for _, s := range tags.RegionProportion.TopRegions {
			if err := regions.append(p.UserID, s.Region, s.Count, s.Percentage); err != nil {
				return err
			}
		}

		for rank, s := range tags.PreferredTargetCategory.Top3Categories {
			if err := categories.append(p.UserID, rank+1, s.TargetType, s.TargetCategory, s.Count, s.Percentage); err != nil {
				return err
			}
		}

		for rank, s := range tags.PreferredTopicGroup.Top3Combinations {
			if err := topics.append(p.UserID, rank+1, s.TopicID, s.GroupName, s.Count, s.Percentage); err != nil {
				return err
			}
		}

		for rank, s := range tags.PreferredScoutScenario.Top3Scenarios {
			if err := scenarios.append(p.UserID, rank+1, s.TaskType, s.ScoutType, s.Count, s.Percentage); err != nil {
				return err
			}
		}
	}

	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	index, err := f.GetSheetIndex(SheetSummary)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	_ = f.SetColWidth(SheetSummary, "A", "A", 28)
	_ = f.SetColWidth(SheetSummary, "G", "G", 28)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	return nil
}
