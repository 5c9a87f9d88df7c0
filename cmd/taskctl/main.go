package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/google/uuid"

	"taskmanager/internal/client/state"
	"taskmanager/pkg/taskclient"
)

var (
	app     = kingpin.New("taskctl", "Command line client for the task manager API")
	server  = app.Flag("server", "API base URL").Default("http://localhost:8080").Envar("TASKCTL_SERVER").String()
	lang    = app.Flag("lang", "Language of server messages").Default("en").Envar("TASKCTL_LANG").String()
	noColor = app.Flag("no-color", "Disable colored output").Bool()

	listCmd       = app.Command("list", "List tasks")
	listCompleted = listCmd.Flag("completed", "Only completed tasks").Bool()
	listPending   = listCmd.Flag("pending", "Only pending tasks").Bool()
	listSkip      = listCmd.Flag("skip", "Tasks to skip").Int()
	listLimit     = listCmd.Flag("limit", "Maximum tasks to return").Int()

	addCmd         = app.Command("add", "Create a task")
	addTitle       = addCmd.Arg("title", "Task title").Required().String()
	addDescription = addCmd.Flag("description", "Task description").Short('d').String()
	addPriority    = addCmd.Flag("priority", "low, medium, high or urgent").Short('p').String()
	addCategory    = addCmd.Flag("category", "work, personal, health, finance, learning, errands or other").Short('c').String()
	addDue         = addCmd.Flag("due", "Due date, RFC3339 or YYYY-MM-DD").String()

	doneCmd = app.Command("done", "Mark a task completed")
	doneID  = doneCmd.Arg("id", "Task ID").Required().Uint64()

	undoCmd = app.Command("undo", "Mark a task pending again")
	undoID  = undoCmd.Arg("id", "Task ID").Required().Uint64()

	editCmd              = app.Command("edit", "Update fields of a task")
	editID               = editCmd.Arg("id", "Task ID").Required().Uint64()
	editTitle            = editCmd.Flag("title", "New title").String()
	editDescription      = editCmd.Flag("description", "New description").String()
	editClearDescription = editCmd.Flag("clear-description", "Remove the description").Bool()
	editPriority         = editCmd.Flag("priority", "New priority").String()
	editCategory         = editCmd.Flag("category", "New category").String()
	editDue              = editCmd.Flag("due", "New due date").String()
	editClearDue         = editCmd.Flag("clear-due", "Remove the due date").Bool()

	rmCmd = app.Command("rm", "Delete a task")
	rmID  = rmCmd.Arg("id", "Task ID").Required().Uint64()

	parseCmd    = app.Command("parse", "Turn free text into a task draft")
	parseText   = parseCmd.Arg("text", "Free text").Required().Strings()
	parseCreate = parseCmd.Flag("create", "Create the task right away").Bool()

	prioritizeCmd = app.Command("prioritize", "Rank tasks with the AI")
	prioritizeIDs = prioritizeCmd.Arg("ids", "Task IDs").Required().Uint64List()

	categorizeCmd = app.Command("categorize", "Let the AI pick a category")
	categorizeID  = categorizeCmd.Arg("id", "Task ID").Required().Uint64()

	insightsCmd = app.Command("insights", "Show productivity insights")

	statusCmd = app.Command("status", "Show whether AI features are available")
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := newRenderer(os.Stdout, *noColor)
	c := &cli{
		client: taskclient.New(*server, taskclient.WithLanguage(*lang)),
		store:  state.NewStore(state.New()),
		out:    r,
	}

	c.run(ctx, command)
	r.notices(c.store.Snapshot())

	if c.store.Snapshot().HasErrors() {
		os.Exit(1)
	}
}

type cli struct {
	client *taskclient.Client
	store  *state.Store
	out    *renderer
}

func (c *cli) run(ctx context.Context, command string) {
	switch command {
	case listCmd.FullCommand():
		c.list(ctx)
	case addCmd.FullCommand():
		c.add(ctx)
	case doneCmd.FullCommand():
		c.setCompleted(ctx, *doneID, true)
	case undoCmd.FullCommand():
		c.setCompleted(ctx, *undoID, false)
	case editCmd.FullCommand():
		c.edit(ctx)
	case rmCmd.FullCommand():
		c.remove(ctx)
	case parseCmd.FullCommand():
		c.parse(ctx)
	case prioritizeCmd.FullCommand():
		c.prioritize(ctx)
	case categorizeCmd.FullCommand():
		c.categorize(ctx)
	case insightsCmd.FullCommand():
		c.insights(ctx)
	case statusCmd.FullCommand():
		c.status(ctx)
	}
}

func (c *cli) fail(err error) {
	c.store.Dispatch(state.Failed{Err: err, At: time.Now()})
}

func (c *cli) notify(text string) {
	c.store.Dispatch(state.Notified{Text: text, At: time.Now()})
}

func (c *cli) list(ctx context.Context) {
	filter := state.FilterAll
	switch {
	case *listCompleted && *listPending:
		c.fail(errors.New("--completed and --pending are mutually exclusive"))
		return
	case *listCompleted:
		filter = state.FilterCompleted
	case *listPending:
		filter = state.FilterPending
	}
	c.store.Dispatch(state.FilterChanged{Filter: filter})

	list, err := c.client.ListTasks(ctx, taskclient.ListOptions{
		Completed: filter.Completed(),
		Skip:      *listSkip,
		Limit:     *listLimit,
	})
	if err != nil {
		c.fail(err)
		return
	}
	c.out.tasks(c.store.Dispatch(state.TasksLoaded{List: list}))
}

func (c *cli) add(ctx context.Context) {
	c.store.Dispatch(state.EditStarted{Form: state.EditForm{
		Title:       *addTitle,
		Description: *addDescription,
		Priority:    *addPriority,
		Category:    *addCategory,
		DueDate:     *addDue,
	}})

	task := taskclient.NewTask{
		Title:    *addTitle,
		Priority: *addPriority,
		Category: *addCategory,
	}
	if *addDescription != "" {
		task.Description = addDescription
	}
	if *addDue != "" {
		due, err := parseDue(*addDue)
		if err != nil {
			c.fail(err)
			return
		}
		task.DueDate = &due
	}

	created, err := c.client.CreateTask(ctx, task, uuid.NewString())
	if err != nil {
		c.fail(err)
		return
	}
	c.out.tasks(c.store.Dispatch(state.TaskSaved{Task: created}))
}

func (c *cli) setCompleted(ctx context.Context, id uint64, completed bool) {
	c.update(ctx, id, taskclient.TaskPatch{Completed: &completed})
}

func (c *cli) edit(ctx context.Context) {
	patch := taskclient.TaskPatch{
		ClearDescription: *editClearDescription,
		ClearDueDate:     *editClearDue,
	}
	if *editTitle != "" {
		patch.Title = editTitle
	}
	if *editDescription != "" {
		patch.Description = editDescription
	}
	if *editPriority != "" {
		patch.Priority = editPriority
	}
	if *editCategory != "" {
		patch.Category = editCategory
	}
	if *editDue != "" {
		due, err := parseDue(*editDue)
		if err != nil {
			c.fail(err)
			return
		}
		patch.DueDate = &due
	}

	c.store.Dispatch(state.EditStarted{Form: state.EditForm{
		TaskID:      *editID,
		Title:       *editTitle,
		Description: *editDescription,
		Priority:    *editPriority,
		Category:    *editCategory,
		DueDate:     *editDue,
	}})
	c.update(ctx, *editID, patch)
}

func (c *cli) update(ctx context.Context, id uint64, patch taskclient.TaskPatch) {
	updated, err := c.client.UpdateTask(ctx, id, patch)
	if err != nil {
		c.fail(err)
		return
	}
	c.out.tasks(c.store.Dispatch(state.TaskSaved{Task: updated}))
}

func (c *cli) remove(ctx context.Context) {
	message, err := c.client.DeleteTask(ctx, *rmID)
	if err != nil {
		c.fail(err)
		return
	}
	c.store.Dispatch(state.TaskRemoved{ID: *rmID})
	c.notify(message)
}

// requireAI keeps AI commands off when the server reports no provider.
func (c *cli) requireAI(ctx context.Context) bool {
	status, err := c.client.AIStatus(ctx)
	if err != nil {
		c.fail(err)
		return false
	}
	c.store.Dispatch(state.AIStatusLoaded{Available: status.Available})
	if !status.Available {
		c.fail(fmt.Errorf("AI features are not available on %s", *server))
		return false
	}
	return true
}

func (c *cli) parse(ctx context.Context) {
	if !c.requireAI(ctx) {
		return
	}
	text := strings.Join(*parseText, " ")

	if *parseCreate {
		result, err := c.client.ParseAndCreate(ctx, text, uuid.NewString())
		if err != nil {
			c.fail(err)
			return
		}
		c.out.tasks(c.store.Dispatch(state.TaskSaved{Task: result.Task}))
		c.notify(fmt.Sprintf("%s (confidence %.0f%%)", result.Message, result.Confidence*100))
		return
	}

	draft, err := c.client.Parse(ctx, text)
	if err != nil {
		c.fail(err)
		return
	}
	c.out.draft(draft)
}

func (c *cli) prioritize(ctx context.Context) {
	if !c.requireAI(ctx) {
		return
	}
	result, err := c.client.Prioritize(ctx, *prioritizeIDs)
	if err != nil {
		c.fail(err)
		return
	}
	c.out.tasks(c.store.Dispatch(state.Prioritized{Tasks: result.Tasks}))
	c.notify(result.Reasoning)
}

func (c *cli) categorize(ctx context.Context) {
	if !c.requireAI(ctx) {
		return
	}
	result, err := c.client.Categorize(ctx, *categorizeID)
	if err != nil {
		c.fail(err)
		return
	}
	c.notify(fmt.Sprintf("%s: #%d is now %s", result.Message, result.TaskID, result.Category))
}

func (c *cli) insights(ctx context.Context) {
	if !c.requireAI(ctx) {
		return
	}
	insights, err := c.client.Insights(ctx)
	if err != nil {
		c.fail(err)
		return
	}
	c.out.insights(insights)
}

func (c *cli) status(ctx context.Context) {
	status, err := c.client.AIStatus(ctx)
	if err != nil {
		c.fail(err)
		return
	}
	c.store.Dispatch(state.AIStatusLoaded{Available: status.Available})
	c.out.aiStatus(status)
}

func parseDue(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if due, err := time.Parse(layout, value); err == nil {
			return due.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", value)
}
