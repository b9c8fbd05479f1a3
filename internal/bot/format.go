package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/projects"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
)

const maxListed = 40

func qty(q float64) string {
	return strconv.FormatFloat(materials.Round3(q), 'f', -1, 64)
}

func formatItems(sb *strings.Builder, items []materials.Item) {
	if len(items) == 0 {
		sb.WriteString("  (no materials)\n")
		return
	}
	for i, it := range items {
		if i == maxListed {
			fmt.Fprintf(sb, "  … %d more\n", len(items)-maxListed)
			break
		}
		fmt.Fprintf(sb, "  %s: %s\n", it.Name, qty(it.Quantity))
	}
	fmt.Fprintf(sb, "  total: %s\n", qty(materials.Total(items)))
}

// formatPlan renders a day plan. suggested is shown for unsaved days.
func formatPlan(p *production.DayPlan, suggested int) string {
	var sb strings.Builder
	if p.DayNumber > 0 {
		fmt.Fprintf(&sb, "Day %s, DAY%s [%s]\n", p.Date, versioning.Pad(p.DayNumber), p.Status)
	} else {
		fmt.Fprintf(&sb, "Day %s, not saved yet (will be DAY%s)\n", p.Date, versioning.Pad(suggested))
	}
	if p.UpdatedBy != "" {
		fmt.Fprintf(&sb, "last change by %s at %s\n", p.UpdatedBy, p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	sb.WriteString("\nCards:\n")
	if len(p.Cards) == 0 {
		sb.WriteString("  none\n")
	}
	for _, c := range p.Cards {
		fmt.Fprintf(&sb, "  %s  %s %s (%s), %d items\n", shortID(c.ID), c.SubprojectCode, c.FormulationFile, c.CustomerName, len(c.Items))
	}
	sb.WriteString("\nMaterials:\n")
	formatItems(&sb, p.Materials)
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSummaries(list []production.Summary) string {
	if len(list) == 0 {
		return "No production days yet."
	}
	var sb strings.Builder
	for i, s := range list {
		if i == maxListed {
			fmt.Fprintf(&sb, "… %d more\n", len(list)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "%s  DAY%s  %-11s %d cards\n", s.Date, versioning.Pad(s.DayNumber), s.Status, s.Cards)
	}
	return sb.String()
}

func formatSources(sub projects.Subproject, files []versioning.SourceFile) string {
	if len(files) == 0 {
		return fmt.Sprintf("%s has no formulation sheets yet.", sub.Code)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Formulation sheets of %s (%s):\n", sub.Code, sub.CustomerName)
	for _, f := range files {
		if f.Sequence > 0 {
			fmt.Fprintf(&sb, "  SF%s  %s\n", versioning.Pad(f.Sequence), f.Name)
		} else {
			fmt.Fprintf(&sb, "  ----  %s\n", f.Name)
		}
	}
	return sb.String()
}

func formatSubprojects(list []projects.Subproject) string {
	if len(list) == 0 {
		return "No subprojects."
	}
	var sb strings.Builder
	for _, s := range list {
		fmt.Fprintf(&sb, "#%d  %s/%s  %s [%s]\n", s.ID, s.CustomerSlug, s.ProjectCode, s.Code, s.Type)
	}
	return sb.String()
}

func formatExtraction(doc *formulation.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", doc.Kind, doc.SourceFile)
	if doc.VersionTag != "" {
		fmt.Fprintf(&sb, " [%s]", doc.VersionTag)
	}
	if doc.Date.Full != "" {
		fmt.Fprintf(&sb, " dated %s", doc.Date.Full)
	}
	sb.WriteString("\n")
	for _, l := range doc.Layers {
		fmt.Fprintf(&sb, "%s layer: thickness %s, mass %s\n", l.Layer, qty(l.Thickness), qty(l.Mass))
	}
	formatItems(&sb, materials.Aggregate(doc.Items))
	return sb.String()
}
