package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"taskmanager/internal/client/state"
	"taskmanager/pkg/taskclient"
)

type renderer struct {
	w       io.Writer
	dim     *color.Color
	bold    *color.Color
	success *color.Color
	failure *color.Color
	byLevel map[string]*color.Color
}

func newRenderer(w io.Writer, noColor bool) *renderer {
	r := &renderer{
		w:       w,
		dim:     color.New(color.Faint),
		bold:    color.New(color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		byLevel: map[string]*color.Color{
			"low":    color.New(color.FgCyan),
			"medium": color.New(color.FgBlue),
			"high":   color.New(color.FgYellow),
			"urgent": color.New(color.FgRed, color.Bold),
		},
	}
	if noColor {
		color.NoColor = true
	}
	return r
}

func (r *renderer) tasks(s state.State) {
	if len(s.Tasks) == 0 {
		r.dim.Fprintln(r.w, "no tasks")
		return
	}

	for _, task := range s.Tasks {
		mark := "[ ]"
		if task.Completed {
			mark = r.success.Sprint("[x]")
		}
		fmt.Fprintf(r.w, "%s %4d  %-8s %-9s %s", mark, task.ID, r.priority(task.Priority), task.Category, task.Title)
		if task.DueDate != nil {
			r.dim.Fprintf(r.w, "  due %s", task.DueDate.Format("2006-01-02 15:04"))
		}
		if task.AIGenerated {
			r.dim.Fprint(r.w, "  (ai)")
		}
		fmt.Fprintln(r.w)
	}
	r.dim.Fprintf(r.w, "%d of %d tasks (%s)\n", len(s.Tasks), s.Total, s.Filter)
}

func (r *renderer) draft(d taskclient.TaskDraft) {
	r.bold.Fprintln(r.w, d.Title)
	if d.Description != nil {
		fmt.Fprintln(r.w, *d.Description)
	}
	fmt.Fprintf(r.w, "priority %s, category %s", r.priority(d.Priority), d.Category)
	if d.DueDate != nil {
		fmt.Fprintf(r.w, ", due %s", d.DueDate.Format("2006-01-02 15:04"))
	}
	r.dim.Fprintf(r.w, "  confidence %.0f%%\n", d.Confidence*100)
}

func (r *renderer) insights(in taskclient.Insights) {
	r.bold.Fprintf(r.w, "%d tasks, %d completed (%.0f%%)\n", in.TotalTasks, in.CompletedTasks, in.CompletionRate*100)
	fmt.Fprintf(r.w, "by category: %s\n", formatCounts(in.TasksByCategory))
	fmt.Fprintf(r.w, "by priority: %s\n", formatCounts(in.TasksByPriority))
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, in.Summary)
	for _, tip := range in.Tips {
		fmt.Fprintf(r.w, "  - %s\n", tip)
	}
}

func (r *renderer) aiStatus(status taskclient.AIStatus) {
	if !status.Available {
		r.failure.Fprintln(r.w, "AI features disabled")
		return
	}
	model := "unknown model"
	if status.Model != nil {
		model = *status.Model
	}
	r.success.Fprintf(r.w, "AI features enabled (%s)\n", model)
}

func (r *renderer) notices(s state.State) {
	for _, notice := range s.Notices {
		if notice.Text == "" {
			continue
		}
		if notice.Level == state.NoticeError {
			r.failure.Fprintln(r.w, "error: "+notice.Text)
			continue
		}
		r.success.Fprintln(r.w, notice.Text)
	}
}

func (r *renderer) priority(p string) string {
	if c, ok := r.byLevel[p]; ok {
		return c.Sprint(p)
	}
	return p
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for key, count := range counts {
		if count > 0 {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "none"
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", key, counts[key]))
	}
	return strings.Join(parts, ", ")
}

