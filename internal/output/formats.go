package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/starford/ansuz/internal/index"
)

// DefaultRegistry returns a registry with human formatters for every
// built-in record tag.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TagSkill, formatSkill)
	r.Register(TagSkillList, formatSkillList)
	r.Register(TagSkillSearch, formatSkillSearch)
	r.Register(TagPrompt, formatPrompt)
	r.Register(TagPromptList, formatPromptList)
	r.Register(TagPromptSearch, formatPromptSearch)
	r.Register(TagCategoryList, formatCategoryList)
	r.Register(TagStats, formatStats)
	r.Register(TagSyncReport, formatSyncReport)
	r.Register(TagPlan, formatPlan)
	r.Register(TagPlanList, formatPlanList)
	r.Register(TagTaskList, formatTasks)
	r.Register(TagStatus, formatStatus)
	return r
}

func badRecord(tag string, rec Record) error {
	return fmt.Errorf("output: record %T does not match tag %q", rec, tag)
}

func newTab(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func formatSkill(w io.Writer, rec Record) error {
	r, ok := rec.(SkillRecord)
	if !ok {
		return badRecord(TagSkill, rec)
	}
	fmt.Fprintf(w, "%s\n", r.Path)
	fmt.Fprintf(w, "category: %s  name: %s  tokens: %d\n", r.Category, r.Name, r.TokenCount)
	if r.Title != "" {
		fmt.Fprintf(w, "title: %s\n", r.Title)
	}
	if r.Description != "" {
		fmt.Fprintf(w, "description: %s\n", r.Description)
	}
	fmt.Fprintf(w, "updated: %s\n\n", r.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(w, strings.TrimRight(r.Content, "\n"))
	return nil
}

func formatSkillList(w io.Writer, rec Record) error {
	r, ok := rec.(SkillListRecord)
	if !ok {
		return badRecord(TagSkillList, rec)
	}
	tw := newTab(w)
	fmt.Fprintln(tw, "CATEGORY\tNAME\tTITLE\tPATH")
	for _, s := range r.Skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Category, s.Name, s.Title, s.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d skills\n", r.Count)
	return nil
}

func formatSkillSearch(w io.Writer, rec Record) error {
	r, ok := rec.(SkillSearchRecord)
	if !ok {
		return badRecord(TagSkillSearch, rec)
	}
	fmt.Fprintf(w, "%d hits for %q\n\n", r.Count, r.Query)
	for _, h := range r.Hits {
		fmt.Fprintf(w, "%s  (%s)\n", h.Path, h.Category)
		if h.Snippet != "" {
			fmt.Fprintf(w, "    %s\n", h.Snippet)
		}
	}
	return nil
}

func formatPrompt(w io.Writer, rec Record) error {
	r, ok := rec.(PromptRecord)
	if !ok {
		return badRecord(TagPrompt, rec)
	}
	fmt.Fprintf(w, "%s\n", r.Name)
	if r.Title != "" {
		fmt.Fprintf(w, "title: %s\n", r.Title)
	}
	if r.Author != "" {
		fmt.Fprintf(w, "author: %s\n", r.Author)
	}
	if r.Description != "" {
		fmt.Fprintf(w, "description: %s\n", r.Description)
	}
	if len(r.Fragments) > 0 {
		fmt.Fprintln(w, "\nembedded fragments:")
		for _, f := range r.Fragments {
			fmt.Fprintf(w, "  %3d. %s\n", f.Position, f.SkillPath)
		}
	}
	if len(r.References) > 0 {
		fmt.Fprintln(w, "\nreferences:")
		for _, f := range r.References {
			fmt.Fprintf(w, "  %3d. %s\n", f.Position, f.SkillPath)
		}
	}
	if r.Content != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(r.Content, "\n"))
	}
	return nil
}

func formatPromptList(w io.Writer, rec Record) error {
	r, ok := rec.(PromptListRecord)
	if !ok {
		return badRecord(TagPromptList, rec)
	}
	tw := newTab(w)
	fmt.Fprintln(tw, "NAME\tTITLE\tAUTHOR")
	for _, p := range r.Prompts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Title, p.Author)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d prompts\n", r.Count)
	return nil
}

func formatPromptSearch(w io.Writer, rec Record) error {
	r, ok := rec.(PromptSearchRecord)
	if !ok {
		return badRecord(TagPromptSearch, rec)
	}
	fmt.Fprintf(w, "%d hits for %q\n\n", r.Count, r.Query)
	for _, h := range r.Hits {
		fmt.Fprintf(w, "%s\n", h.Name)
		if h.Snippet != "" {
			fmt.Fprintf(w, "    %s\n", h.Snippet)
		}
	}
	return nil
}

func formatCategoryList(w io.Writer, rec Record) error {
	r, ok := rec.(CategoryListRecord)
	if !ok {
		return badRecord(TagCategoryList, rec)
	}
	tw := newTab(w)
	fmt.Fprintln(tw, "CATEGORY\tSKILLS")
	for _, c := range r.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
	}
	return tw.Flush()
}

func formatStats(w io.Writer, rec Record) error {
	r, ok := rec.(StatsRecord)
	if !ok {
		return badRecord(TagStats, rec)
	}
	fmt.Fprintf(w, "skills:      %d\n", r.Skills)
	fmt.Fprintf(w, "prompts:     %d\n", r.Prompts)
	fmt.Fprintf(w, "fragments:   %d\n", r.Fragments)
	fmt.Fprintf(w, "plans:       %d\n", r.Plans)
	fmt.Fprintf(w, "categories:  %d\n", r.Categories)
	fmt.Fprintf(w, "total size:  %d bytes\n", r.TotalSizeBytes)
	fmt.Fprintf(w, "est. tokens: %d\n", r.TotalTokens)
	if len(r.ByCategory) > 0 {
		fmt.Fprintln(w)
		tw := newTab(w)
		for _, c := range r.ByCategory {
			fmt.Fprintf(tw, "  %s\t%d\n", c.Category, c.Count)
		}
		return tw.Flush()
	}
	return nil
}

func formatSyncReport(w io.Writer, rec Record) error {
	r, ok := rec.(SyncReportRecord)
	if !ok {
		return badRecord(TagSyncReport, rec)
	}
	fmt.Fprintf(w, "synced %d files: %d inserted, %d updated, %d skipped, %d errors\n",
		r.Total(), r.Inserted, r.Updated, r.Skipped, r.Errors)
	for _, f := range r.Files {
		if f.Outcome == index.OutcomeError {
			fmt.Fprintf(w, "  error %s: %s\n", f.Path, f.Err)
		}
	}
	return nil
}

func formatPlan(w io.Writer, rec Record) error {
	r, ok := rec.(PlanRecord)
	if !ok {
		return badRecord(TagPlan, rec)
	}
	fmt.Fprintf(w, "%s  [%s]\n", r.Name, r.Status)
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n", r.Description)
	}
	for _, l := range r.Lists {
		fmt.Fprintf(w, "\n%s:\n", l.Name)
		for _, t := range l.Tasks {
			fmt.Fprintf(w, "  %s %s\n", taskMark(t.Status), t.Content)
		}
	}
	return nil
}

func formatPlanList(w io.Writer, rec Record) error {
	r, ok := rec.(PlanListRecord)
	if !ok {
		return badRecord(TagPlanList, rec)
	}
	tw := newTab(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tDESCRIPTION")
	for _, p := range r.Plans {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Status, p.Description)
	}
	return tw.Flush()
}

func formatTasks(w io.Writer, rec Record) error {
	r, ok := rec.(TaskListRecord)
	if !ok {
		return badRecord(TagTaskList, rec)
	}
	for _, t := range r.Tasks {
		fmt.Fprintf(w, "%4d %s %s\n", t.ID, taskMark(t.Status), t.Content)
	}
	return nil
}

func formatStatus(w io.Writer, rec Record) error {
	r, ok := rec.(StatusRecord)
	if !ok {
		return badRecord(TagStatus, rec)
	}
	if r.Detail != "" {
		fmt.Fprintf(w, "%s: %s\n", r.Status, r.Detail)
		return nil
	}
	fmt.Fprintln(w, r.Status)
	return nil
}

func taskMark(status string) string {
	if status == index.TaskDone {
		return "[x]"
	}
	return "[ ]"
}
