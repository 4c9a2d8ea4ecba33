package resources

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/models"
	"github.com/TWRT/mstodo/internal/recurrence"
)

var expandSubtasks = url.Values{"$expand": {"checklistItems"}}

var taskSchema = convert.NewSchema("Task",
	convert.NewField("id", "id", convert.String, convert.ReadOnly()),
	convert.NewField("title", "title", convert.String),
	convert.NewField("body", "body", convert.Content),
	convert.NewField("categories", "categories", convert.ListOf[string](convert.String)),
	convert.NewField("importance", "importance", convert.Enum(models.Importances...), convert.WithDefault(models.ImportanceNormal)),
	convert.NewField("status", "status", convert.Enum(models.Statuses...), convert.WithDefault(models.StatusNotStarted)),
	convert.NewField("isReminderOn", "isReminderOn", convert.Boolean, convert.WithDefault(false)),
	convert.NewField("hasAttachments", "hasAttachments", convert.Boolean, convert.WithDefault(false)),
	convert.NewField("createdDateTime", "createdDateTime", convert.IsoTime, convert.ReadOnly()),
	convert.NewField("lastModifiedDateTime", "lastModifiedDateTime", convert.IsoTime, convert.ReadOnly()),
	convert.NewField("completedDateTime", "completedDateTime", convert.Datetime),
	convert.NewField("dueDateTime", "dueDateTime", convert.Datetime, convert.WithFallback(recurrenceStart)),
	convert.NewField("reminderDateTime", "reminderDateTime", convert.Datetime),
	convert.NewField("startDateTime", "startDateTime", convert.Datetime),
	convert.NewField("recurrence", "recurrence", recurrence.Converter),
	convert.NewField("subtasks", "checklistItems", convert.ListOf[*Subtask](subtaskConverter{}), convert.NotExported()),
)

// recurrenceStart stands in for a missing due date: the API does not accept
// range dates on updates, so the due date carries the recurrence start.
func recurrenceStart(r *convert.Record) any {
	rec, ok := convert.Lookup[*recurrence.Recurrence](r, "recurrence")
	if !ok || rec == nil || rec.Range() == nil {
		return nil
	}
	start, ok := rec.Range().StartDate()
	if !ok {
		return nil
	}
	return start
}

type Task struct {
	resource
	taskList *TaskList
}

// NewTask returns a task that exists only in memory until it is created,
// usually through TaskList.SaveTask.
func NewTask(c client.ResourceClient, title string) *Task {
	t := &Task{resource: newResource(taskSchema, c)}
	if title != "" {
		t.set("title", title)
	}
	return t
}

// TaskFromMapping builds a task of list from wire data. list may be nil.
func TaskFromMapping(c client.ResourceClient, list *TaskList, wire convert.Mapping) (*Task, error) {
	t, err := convert.Build(taskSchema, wire, func(convert.Values) (*Task, error) {
		t := NewTask(c, "")
		if err := t.SetTaskList(list); err != nil {
			return nil, err
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	t.adoptSubtasks()
	return t, nil
}

func (t *Task) TaskList() *TaskList {
	return t.taskList
}

// SetTaskList binds t to list. A task cannot move between lists: binding it
// to a list other than its current one fails with ErrUnsupportedOperation.
func (t *Task) SetTaskList(list *TaskList) error {
	if list == nil {
		return nil
	}
	if t.taskList != nil {
		if t.taskList != list && !t.taskList.Equal(list) {
			return fmt.Errorf("move %s to %s: %w", t, list, ErrUnsupportedOperation)
		}
		return nil
	}
	t.taskList = list
	return nil
}

func (t *Task) Title() string {
	return convert.Get[string](t.rec, "title")
}

func (t *Task) SetTitle(title string) {
	t.set("title", title)
}

func (t *Task) Body() models.Content {
	return convert.Get[models.Content](t.rec, "body")
}

func (t *Task) SetBody(c models.Content) {
	t.set("body", c)
}

func (t *Task) Categories() []string {
	return convert.Get[[]string](t.rec, "categories")
}

func (t *Task) SetCategories(categories ...string) {
	t.set("categories", categories)
}

func (t *Task) Importance() models.Importance {
	return convert.Get[models.Importance](t.rec, "importance")
}

func (t *Task) SetImportance(i models.Importance) {
	t.set("importance", i)
}

func (t *Task) Status() models.Status {
	return convert.Get[models.Status](t.rec, "status")
}

func (t *Task) SetStatus(s models.Status) {
	t.set("status", s)
}

func (t *Task) IsReminderOn() bool {
	return convert.Get[bool](t.rec, "isReminderOn")
}

func (t *Task) HasAttachments() bool {
	return convert.Get[bool](t.rec, "hasAttachments")
}

func (t *Task) CreatedAt() (time.Time, bool) {
	return convert.Lookup[time.Time](t.rec, "createdDateTime")
}

func (t *Task) LastModifiedAt() (time.Time, bool) {
	return convert.Lookup[time.Time](t.rec, "lastModifiedDateTime")
}

func (t *Task) CompletedAt() (time.Time, bool) {
	return convert.Lookup[time.Time](t.rec, "completedDateTime")
}

// Due returns the due date, or the recurrence start when none is set.
func (t *Task) Due() (time.Time, bool) {
	return convert.Lookup[time.Time](t.rec, "dueDateTime")
}

// SetDue sets the due date; the zero time clears it.
func (t *Task) SetDue(due time.Time) {
	t.setTime("dueDateTime", due)
}

func (t *Task) Reminder() (time.Time, bool) {
	return convert.Lookup[time.Time](t.rec, "reminderDateTime")
}

// SetReminder sets the reminder and turns it on; the zero time clears it
// and turns it off.
func (t *Task) SetReminder(at time.Time) {
	t.setTime("reminderDateTime", at)
	t.set("isReminderOn", !at.IsZero())
}

func (t *Task) Start() (time.Time, bool) {
	return convert.Lookup[time.Time](t.rec, "startDateTime")
}

func (t *Task) SetStart(at time.Time) {
	t.setTime("startDateTime", at)
}

func (t *Task) Recurrence() *recurrence.Recurrence {
	return convert.Get[*recurrence.Recurrence](t.rec, "recurrence")
}

func (t *Task) SetRecurrence(r *recurrence.Recurrence) {
	if r == nil {
		t.set("recurrence", nil)
		return
	}
	t.set("recurrence", r)
}

// Complete marks the task as completed. It is saved by the next Update.
func (t *Task) Complete() {
	t.SetStatus(models.StatusCompleted)
}

func (t *Task) IsCompleted() bool {
	return t.Status() == models.StatusCompleted
}

func (t *Task) Subtasks() []*Subtask {
	return convert.Get[[]*Subtask](t.rec, "subtasks")
}

// AddSubtask appends an unsaved checklist item. It is created together with
// the task by Create or Update.
func (t *Task) AddSubtask(name string) *Subtask {
	s := NewSubtask(nil, name)
	s.task = t
	s.client = t.client
	t.rec.Force("subtasks", append(t.Subtasks(), s))
	return s
}

func (t *Task) setTime(name string, v time.Time) {
	if v.IsZero() {
		t.set(name, nil)
		return
	}
	t.set(name, v)
}

func (t *Task) adoptSubtasks() {
	for _, s := range t.Subtasks() {
		s.task = t
		if s.client == nil {
			s.client = t.client
		}
	}
}

// Equal reports whether both tasks are the same persisted task.
func (t *Task) Equal(other *Task) bool {
	return t != nil && other != nil && t.sameID(other.ID())
}

func (t *Task) String() string {
	return fmt.Sprintf("Task %q", t.Title())
}

func (t *Task) ManagingEndpoint() (string, error) {
	if t.taskList == nil {
		return "", ErrTaskListNotSpecified
	}
	tasks, err := t.taskList.tasksEndpoint()
	if err != nil {
		return "", err
	}
	return t.endpoint(tasks)
}

// Create creates the task in its list, then every pending subtask.
func (t *Task) Create(ctx context.Context) error {
	if t.ID() != "" {
		return lifecycleError("create", t, ErrResourceAlreadyCreated)
	}
	if t.taskList == nil {
		return lifecycleError("create", t, ErrTaskListNotSpecified)
	}
	tasks, err := t.taskList.tasksEndpoint()
	if err == nil {
		err = t.create(ctx, tasks)
	}
	if err == nil {
		err = t.saveSubtasks(ctx)
	}
	if err != nil {
		return lifecycleError("create", t, err)
	}
	return nil
}

// Update saves the task, then its subtasks: new ones are created and known
// ones updated. Subtasks missing from the task are left on the server; use
// Subtask.Delete to remove one.
func (t *Task) Update(ctx context.Context) error {
	e, err := t.ManagingEndpoint()
	if err == nil {
		err = t.update(ctx, e)
	}
	if err == nil {
		err = t.saveSubtasks(ctx)
	}
	if err != nil {
		return lifecycleError("update", t, err)
	}
	return nil
}

// Refresh replaces every attribute, subtasks included, with the server copy.
func (t *Task) Refresh(ctx context.Context) error {
	e, err := t.ManagingEndpoint()
	if err == nil {
		err = t.refresh(ctx, e, expandSubtasks)
	}
	if err != nil {
		return lifecycleError("refresh", t, err)
	}
	t.adoptSubtasks()
	return nil
}

func (t *Task) Delete(ctx context.Context) error {
	e, err := t.ManagingEndpoint()
	if err == nil {
		err = t.delete(ctx, e)
	}
	if err != nil {
		return lifecycleError("delete", t, err)
	}
	return nil
}

func (t *Task) saveSubtasks(ctx context.Context) error {
	for _, s := range t.Subtasks() {
		if err := s.SetTask(t); err != nil {
			return err
		}
		if s.client == nil {
			s.client = t.client
		}
		if s.ID() == "" {
			if err := s.Create(ctx); err != nil {
				return err
			}
			continue
		}
		if err := s.Update(ctx); err != nil {
			return err
		}
	}
	return nil
}
