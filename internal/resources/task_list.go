package resources

import (
	"context"
	"fmt"
	"net/url"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/filters"
	"github.com/TWRT/mstodo/internal/models"
)

const TaskListsEndpoint = "todo/lists"

var taskListSchema = convert.NewSchema("TaskList",
	convert.NewField("id", "id", convert.String, convert.ReadOnly()),
	convert.NewField("name", "displayName", convert.String),
	convert.NewField("isOwner", "isOwner", convert.Boolean, convert.ReadOnly()),
	convert.NewField("isShared", "isShared", convert.Boolean, convert.ReadOnly()),
	convert.NewField("wellknownListName", "wellknownListName", convert.Enum(models.WellknownListNames...), convert.ReadOnly()),
)

// OpenTasksFilter selects every task that is not completed.
var OpenTasksFilter = filters.And(filters.Field("status", filters.Ne(models.StatusCompleted)))

type TaskList struct {
	resource
}

// NewTaskList returns a list that exists only in memory until Create.
func NewTaskList(c client.ResourceClient, name string) *TaskList {
	l := &TaskList{newResource(taskListSchema, c)}
	if name != "" {
		l.set("name", name)
	}
	return l
}

func TaskListFromMapping(c client.ResourceClient, wire convert.Mapping) (*TaskList, error) {
	return convert.Build(taskListSchema, wire, func(convert.Values) (*TaskList, error) {
		return NewTaskList(c, ""), nil
	})
}

// TaskLists returns every list of the signed-in user matching filter.
func TaskLists(ctx context.Context, c client.ResourceClient, filter string) ([]*TaskList, error) {
	return client.List(ctx, c, TaskListsEndpoint, filter, func(m convert.Mapping) (*TaskList, error) {
		return TaskListFromMapping(c, m)
	})
}

func GetTaskList(ctx context.Context, c client.ResourceClient, id string) (*TaskList, error) {
	m, err := c.Get(ctx, TaskListsEndpoint+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return TaskListFromMapping(c, m)
}

func (l *TaskList) Name() string {
	return convert.Get[string](l.rec, "name")
}

func (l *TaskList) SetName(name string) {
	l.set("name", name)
}

func (l *TaskList) IsOwner() bool {
	return convert.Get[bool](l.rec, "isOwner")
}

func (l *TaskList) IsShared() bool {
	return convert.Get[bool](l.rec, "isShared")
}

func (l *TaskList) WellknownListName() models.WellknownListName {
	return convert.Get[models.WellknownListName](l.rec, "wellknownListName")
}

// Equal reports whether both lists are the same persisted list.
func (l *TaskList) Equal(other *TaskList) bool {
	return l != nil && other != nil && l.sameID(other.ID())
}

func (l *TaskList) String() string {
	return fmt.Sprintf("List %q", l.Name())
}

func (l *TaskList) ManagingEndpoint() (string, error) {
	return l.endpoint(TaskListsEndpoint)
}

func (l *TaskList) tasksEndpoint() (string, error) {
	e, err := l.ManagingEndpoint()
	if err != nil {
		return "", err
	}
	return e + "/tasks", nil
}

func (l *TaskList) Create(ctx context.Context) error {
	if l.ID() != "" {
		return lifecycleError("create", l, ErrResourceAlreadyCreated)
	}
	if err := l.create(ctx, TaskListsEndpoint); err != nil {
		return lifecycleError("create", l, err)
	}
	return nil
}

func (l *TaskList) Update(ctx context.Context) error {
	e, err := l.ManagingEndpoint()
	if err == nil {
		err = l.update(ctx, e)
	}
	if err != nil {
		return lifecycleError("update", l, err)
	}
	return nil
}

func (l *TaskList) Refresh(ctx context.Context) error {
	e, err := l.ManagingEndpoint()
	if err == nil {
		err = l.refresh(ctx, e, nil)
	}
	if err != nil {
		return lifecycleError("refresh", l, err)
	}
	return nil
}

func (l *TaskList) Delete(ctx context.Context) error {
	e, err := l.ManagingEndpoint()
	if err == nil {
		err = l.delete(ctx, e)
	}
	if err != nil {
		return lifecycleError("delete", l, err)
	}
	return nil
}

// Tasks lists the tasks of l matching filter; an empty filter lists all.
func (l *TaskList) Tasks(ctx context.Context, filter string) ([]*Task, error) {
	if l.client == nil {
		return nil, ErrClientNotSet
	}
	e, err := l.tasksEndpoint()
	if err != nil {
		return nil, err
	}
	return client.List(ctx, l.client, e, filter, func(m convert.Mapping) (*Task, error) {
		return TaskFromMapping(l.client, l, m)
	})
}

func (l *TaskList) OpenTasks(ctx context.Context) ([]*Task, error) {
	return l.Tasks(ctx, OpenTasksFilter)
}

// Task fetches one task of l together with its checklist items.
func (l *TaskList) Task(ctx context.Context, id string) (*Task, error) {
	if l.client == nil {
		return nil, ErrClientNotSet
	}
	e, err := l.tasksEndpoint()
	if err != nil {
		return nil, err
	}
	m, err := l.client.Get(ctx, e+"/"+url.PathEscape(id), expandSubtasks)
	if err != nil {
		return nil, err
	}
	return TaskFromMapping(l.client, l, m)
}

// SaveTask attaches t to l and creates it.
func (l *TaskList) SaveTask(ctx context.Context, t *Task) error {
	if err := t.SetTaskList(l); err != nil {
		return err
	}
	if t.client == nil {
		t.client = l.client
	}
	return t.Create(ctx)
}
