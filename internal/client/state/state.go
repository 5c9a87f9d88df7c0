// Package state holds the client's view of the task list. Reduce is pure; Store
// serializes dispatches and fans snapshots out to subscribers.
package state

import (
	"errors"
	"time"

	"taskmanager/pkg/taskclient"
)

const NoticeTTL = 5 * time.Second

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Completed maps the filter onto the list query parameter.
func (f Filter) Completed() *bool {
	var value bool
	switch f {
	case FilterPending:
		value = false
	case FilterCompleted:
		value = true
	default:
		return nil
	}
	return &value
}

func (f Filter) matches(task taskclient.Task) bool {
	completed := f.Completed()
	return completed == nil || *completed == task.Completed
}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

type Notice struct {
	ID        uint64
	Level     NoticeLevel
	Text      string
	ExpiresAt time.Time
}

// EditForm is an edit in progress. TaskID zero means a new task.
type EditForm struct {
	TaskID      uint64
	Title       string
	Description string
	Priority    string
	Category    string
	DueDate     string
}

type State struct {
	Tasks       []taskclient.Task
	Total       int
	Filter      Filter
	Editing     *EditForm
	AIAvailable bool
	Notices     []Notice

	nextNoticeID uint64
}

func New() State {
	return State{Filter: FilterAll}
}

type Action interface {
	isAction()
}

type (
	TasksLoaded    struct{ List taskclient.TaskList }
	TaskSaved      struct{ Task taskclient.Task }
	TaskRemoved    struct{ ID uint64 }
	FilterChanged  struct{ Filter Filter }
	EditStarted    struct{ Form EditForm }
	EditCancelled  struct{}
	AIStatusLoaded struct{ Available bool }
	Prioritized    struct{ Tasks []taskclient.Task }
	NoticesPruned  struct{ At time.Time }
)

type Notified struct {
	Text string
	At   time.Time
}

type Failed struct {
	Err error
	At  time.Time
}

func (TasksLoaded) isAction()    {}
func (TaskSaved) isAction()      {}
func (TaskRemoved) isAction()    {}
func (FilterChanged) isAction()  {}
func (EditStarted) isAction()    {}
func (EditCancelled) isAction()  {}
func (AIStatusLoaded) isAction() {}
func (Prioritized) isAction()    {}
func (Notified) isAction()       {}
func (Failed) isAction()         {}
func (NoticesPruned) isAction()  {}

// Reduce returns the state after action. s is never modified. A Failed action only
// adds a notice.
func Reduce(s State, action Action) State {
	next := s.clone()

	switch a := action.(type) {
	case TasksLoaded:
		next.Tasks = append([]taskclient.Task(nil), a.List.Tasks...)
		next.Total = a.List.Total

	case TaskSaved:
		next.Tasks, next.Total = upsert(next.Tasks, next.Total, next.Filter, a.Task)
		if next.Editing != nil && (next.Editing.TaskID == a.Task.ID || next.Editing.TaskID == 0) {
			next.Editing = nil
		}

	case TaskRemoved:
		if i := indexOf(next.Tasks, a.ID); i >= 0 {
			next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
			next.Total = max(next.Total-1, 0)
		}
		if next.Editing != nil && next.Editing.TaskID == a.ID {
			next.Editing = nil
		}

	case FilterChanged:
		next.Filter = a.Filter

	case EditStarted:
		form := a.Form
		next.Editing = &form

	case EditCancelled:
		next.Editing = nil

	case AIStatusLoaded:
		next.AIAvailable = a.Available

	case Prioritized:
		next.Tasks = append([]taskclient.Task(nil), a.Tasks...)

	case Notified:
		next = pushNotice(next, NoticeInfo, a.Text, a.At)

	case Failed:
		next = pushNotice(next, NoticeError, errorText(a.Err), a.At)

	case NoticesPruned:
		next = PruneNotices(next, a.At)
	}

	return next
}

// PruneNotices drops notices that expired at or before now.
func PruneNotices(s State, now time.Time) State {
	kept := make([]Notice, 0, len(s.Notices))
	for _, notice := range s.Notices {
		if now.Before(notice.ExpiresAt) {
			kept = append(kept, notice)
		}
	}
	s.Notices = kept
	return s
}

func (s State) HasErrors() bool {
	for _, notice := range s.Notices {
		if notice.Level == NoticeError {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	out := s
	out.Tasks = append([]taskclient.Task(nil), s.Tasks...)
	out.Notices = append([]Notice(nil), s.Notices...)
	if s.Editing != nil {
		form := *s.Editing
		out.Editing = &form
	}
	return out
}

func upsert(tasks []taskclient.Task, total int, filter Filter, task taskclient.Task) ([]taskclient.Task, int) {
	i := indexOf(tasks, task.ID)
	switch {
	case i >= 0 && filter.matches(task):
		tasks[i] = task
	case i >= 0:
		tasks = append(tasks[:i], tasks[i+1:]...)
		total = max(total-1, 0)
	case filter.matches(task):
		tasks = append(tasks, task)
		total++
	}
	return tasks, total
}

func indexOf(tasks []taskclient.Task, id uint64) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func pushNotice(s State, level NoticeLevel, text string, at time.Time) State {
	s.nextNoticeID++
	s.Notices = append(s.Notices, Notice{
		ID:        s.nextNoticeID,
		Level:     level,
		Text:      text,
		ExpiresAt: at.Add(NoticeTTL),
	})
	return s
}

func errorText(err error) string {
	var apiErr *taskclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
