package resources

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/client/clienttest"
	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/models"
	"github.com/TWRT/mstodo/internal/recurrence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiBase = "https://graph.test/v1.0/me"

var taskListExample = convert.Mapping{
	"id":                "id-1",
	"displayName":       "list-name",
	"isOwner":           true,
	"isShared":          false,
	"wellknownListName": "defaultList",
}

func taskExample() convert.Mapping {
	return convert.Mapping{
		"id":                   "task-1",
		"title":                "Task-1",
		"body":                 map[string]any{"content": "notes", "contentType": "text"},
		"categories":           []any{"red"},
		"importance":           "high",
		"status":               "inProgress",
		"isReminderOn":         true,
		"hasAttachments":       false,
		"createdDateTime":      "2020-05-21T10:00:00Z",
		"lastModifiedDateTime": "2020-05-22T10:00:00Z",
		"completedDateTime":    nil,
		"dueDateTime":          map[string]any{"dateTime": "2020-05-21T15:00:00.000000", "timeZone": "UTC"},
		"reminderDateTime":     map[string]any{"dateTime": "2020-05-21T09:00:00.000000", "timeZone": "UTC"},
		"startDateTime":        nil,
		"recurrence":           nil,
		"checklistItems": []any{
			map[string]any{"id": "sub-1", "displayName": "Sub-1", "isChecked": true, "createdDateTime": "2020-05-21T10:00:00Z"},
		},
	}
}

func setup(t *testing.T) (*clienttest.Provider, *client.Client) {
	t.Helper()
	p := clienttest.New()
	return p, client.New(p, "https://graph.test/v1.0", "me")
}

func persistedList(t *testing.T, c client.ResourceClient) *TaskList {
	t.Helper()
	l, err := TaskListFromMapping(c, taskListExample)
	require.NoError(t, err)
	return l
}

func TestSchemasAreValid(t *testing.T) {
	for _, s := range []*convert.Schema{taskListSchema, taskSchema, subtaskSchema} {
		keys := map[string]bool{}
		for _, f := range s.Fields() {
			assert.False(t, keys[f.WireKey], "%s declares %s twice", s.Name(), f.WireKey)
			keys[f.WireKey] = true
		}
		id, ok := s.Field("id")
		require.True(t, ok)
		assert.True(t, id.ReadOnly)
	}
}

func TestTaskListFromMapping(t *testing.T) {
	l := persistedList(t, nil)

	assert.Equal(t, "id-1", l.ID())
	assert.Equal(t, "list-name", l.Name())
	assert.True(t, l.IsOwner())
	assert.False(t, l.IsShared())
	assert.Equal(t, models.WellknownListDefault, l.WellknownListName())

	m, err := l.ToMapping()
	require.NoError(t, err)
	assert.Equal(t, taskListExample, m)
}

func TestTaskRoundTrip(t *testing.T) {
	task, err := TaskFromMapping(nil, nil, taskExample())
	require.NoError(t, err)

	assert.Equal(t, "Task-1", task.Title())
	assert.Equal(t, models.Content{Value: "notes", Type: models.ContentTypeText}, task.Body())
	assert.Equal(t, []string{"red"}, task.Categories())
	assert.Equal(t, models.ImportanceHigh, task.Importance())
	assert.Equal(t, models.StatusInProgress, task.Status())
	assert.True(t, task.IsReminderOn())
	due, ok := task.Due()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 5, 21, 15, 0, 0, 0, time.UTC), due)
	require.Len(t, task.Subtasks(), 1)
	assert.Same(t, task, task.Subtasks()[0].Task())
	assert.True(t, task.Subtasks()[0].IsChecked())

	m, err := task.ToMapping()
	require.NoError(t, err)
	expected := taskExample()
	delete(expected, "checklistItems")
	assert.Equal(t, expected, normalize(t, m))
}

// normalize runs m through JSON so nested mappings compare with literals.
func normalize(t *testing.T, m convert.Mapping) convert.Mapping {
	t.Helper()
	p := clienttest.New().On(http.MethodPost, apiBase+"/x", http.StatusCreated, nil)
	_, err := client.New(p, "https://graph.test/v1.0", "me").Post(context.Background(), "x", m)
	require.NoError(t, err)
	return p.Calls[0].Body
}

func TestTaskDefaults(t *testing.T) {
	task, err := TaskFromMapping(nil, nil, convert.Mapping{})
	require.NoError(t, err)

	assert.Equal(t, models.ImportanceNormal, task.Importance())
	assert.Equal(t, models.StatusNotStarted, task.Status())
	assert.False(t, task.IsReminderOn())
	assert.False(t, task.HasAttachments())
	assert.Empty(t, task.Subtasks())

	m, err := task.ToMapping()
	require.NoError(t, err)
	assert.Equal(t, "normal", m["importance"])
	assert.Equal(t, "notStarted", m["status"])
	assert.Equal(t, false, m["isReminderOn"])
	assert.Nil(t, m["title"])
}

func TestReadOnlyFields(t *testing.T) {
	task, err := TaskFromMapping(nil, nil, taskExample())
	require.NoError(t, err)

	var roErr *convert.ReadOnlyFieldError
	assert.ErrorAs(t, task.Record().Set("id", "other"), &roErr)
	assert.ErrorAs(t, task.Record().Set("createdDateTime", time.Now()), &roErr)
	assert.Equal(t, "task-1", task.ID())
}

func TestIdentity(t *testing.T) {
	a := persistedList(t, nil)
	b := persistedList(t, nil)
	transient := NewTaskList(nil, "list-name")

	assert.True(t, a.Equal(b))
	assert.False(t, transient.Equal(a))
	assert.False(t, transient.Equal(transient))
	assert.False(t, a.Equal(nil))

	other, err := TaskListFromMapping(nil, convert.Mapping{"id": "id-2", "displayName": "list-name"})
	require.NoError(t, err)
	assert.False(t, a.Equal(other))
}

func TestTaskListBackReference(t *testing.T) {
	first := persistedList(t, nil)
	same := persistedList(t, nil)
	other, err := TaskListFromMapping(nil, convert.Mapping{"id": "id-2"})
	require.NoError(t, err)

	task := NewTask(nil, "Task-1")
	require.NoError(t, task.SetTaskList(first))
	require.NoError(t, task.SetTaskList(same))
	assert.ErrorIs(t, task.SetTaskList(other), ErrUnsupportedOperation)
	assert.Same(t, first, task.TaskList())
}

func TestSubtaskBackReference(t *testing.T) {
	a, err := TaskFromMapping(nil, nil, convert.Mapping{"id": "a"})
	require.NoError(t, err)
	b, err := TaskFromMapping(nil, nil, convert.Mapping{"id": "b"})
	require.NoError(t, err)

	s := a.AddSubtask("Sub")
	assert.Same(t, a, s.Task())
	assert.ErrorIs(t, s.SetTask(b), ErrUnsupportedOperation)
}

func TestSubtaskRebindToSameTaskKeepsParent(t *testing.T) {
	a, err := TaskFromMapping(nil, nil, convert.Mapping{"id": "a"})
	require.NoError(t, err)
	sameA, err := TaskFromMapping(nil, nil, convert.Mapping{"id": "a"})
	require.NoError(t, err)

	s := a.AddSubtask("Sub")
	require.NoError(t, s.SetTask(sameA))
	assert.Same(t, a, s.Task())
	assert.Contains(t, a.Subtasks(), s)
	assert.Empty(t, sameA.Subtasks())
}

func TestRebindUnsavedParent(t *testing.T) {
	task := NewTask(nil, "Task-1")
	s := task.AddSubtask("Sub")
	require.NoError(t, s.SetTask(task))

	list := NewTaskList(nil, "list")
	require.NoError(t, task.SetTaskList(list))
	require.NoError(t, task.SetTaskList(list))
	assert.Same(t, list, task.TaskList())
}

func TestCreateTaskEndToEnd(t *testing.T) {
	p, c := setup(t)
	p.On(http.MethodPost, apiBase+"/todo/lists/id-1/tasks", http.StatusCreated, map[string]any{
		"id":    "new-id",
		"title": "Task-1",
	})
	list := persistedList(t, c)

	task := NewTask(c, "Task-1")
	require.NoError(t, list.SaveTask(context.Background(), task))

	assert.Equal(t, "new-id", task.ID())
	require.Len(t, p.Calls, 1)
	assert.Equal(t, convert.Mapping{
		"title":          "Task-1",
		"importance":     "normal",
		"isReminderOn":   false,
		"status":         "notStarted",
		"hasAttachments": false,
	}, p.Calls[0].Body)
}

func TestCreateGuards(t *testing.T) {
	_, c := setup(t)
	ctx := context.Background()

	created := persistedList(t, c)
	assert.ErrorIs(t, created.Create(ctx), ErrResourceAlreadyCreated)

	orphan := NewTask(c, "Task-1")
	assert.ErrorIs(t, orphan.Create(ctx), ErrTaskListNotSpecified)

	task, err := TaskFromMapping(c, created, convert.Mapping{"id": "t"})
	require.NoError(t, err)
	assert.ErrorIs(t, task.Create(ctx), ErrResourceAlreadyCreated)

	assert.ErrorIs(t, NewSubtask(c, "x").Create(ctx), ErrTaskNotSpecified)
	_, err = NewSubtask(c, "x").ManagingEndpoint()
	assert.ErrorIs(t, err, ErrTaskNotSpecified)

	assert.ErrorIs(t, NewTaskList(nil, "x").Create(ctx), ErrClientNotSet)
	assert.ErrorIs(t, NewTaskList(c, "x").Update(ctx), ErrResourceNotCreated)
}

func TestManagingEndpoints(t *testing.T) {
	list := persistedList(t, nil)
	task, err := TaskFromMapping(nil, list, taskExample())
	require.NoError(t, err)

	e, err := list.ManagingEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "todo/lists/id-1", e)

	e, err = task.ManagingEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "todo/lists/id-1/tasks/task-1", e)

	e, err = task.Subtasks()[0].ManagingEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "todo/lists/id-1/tasks/task-1/checklistItems/sub-1", e)
}

func TestTaskListLifecycle(t *testing.T) {
	p, c := setup(t)
	ctx := context.Background()
	p.On(http.MethodPost, apiBase+"/todo/lists", http.StatusCreated, taskListExample).
		On(http.MethodPatch, apiBase+"/todo/lists/id-1", http.StatusOK, map[string]any{"id": "id-1", "displayName": "New name"}).
		On(http.MethodGet, apiBase+"/todo/lists/id-1", http.StatusOK, map[string]any{"id": "id-1", "displayName": "Server name"}).
		On(http.MethodDelete, apiBase+"/todo/lists/id-1", http.StatusNoContent, nil)

	list := NewTaskList(c, "list-name")
	require.NoError(t, list.Create(ctx))
	assert.Equal(t, "id-1", list.ID())
	assert.Equal(t, convert.Mapping{"displayName": "list-name"}, p.Calls[0].Body)

	list.SetName("New name")
	require.NoError(t, list.Update(ctx))
	assert.Equal(t, "New name", p.Calls[1].Body["displayName"])

	require.NoError(t, list.Refresh(ctx))
	assert.Equal(t, "Server name", list.Name())
	assert.False(t, list.IsOwner())
	assert.Equal(t, models.WellknownListName(""), list.WellknownListName())

	require.NoError(t, list.Delete(ctx))
	assert.Empty(t, p.Pending())
}

func TestDeletedListIsNotFound(t *testing.T) {
	p, c := setup(t)
	p.On(http.MethodGet, apiBase+"/todo/lists/id-1", http.StatusNotFound, nil)

	_, err := GetTaskList(context.Background(), c, "id-1")
	var notFound *client.ResourceNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLookupsEscapeIDs(t *testing.T) {
	p, c := setup(t)
	p.On(http.MethodGet, apiBase+"/todo/lists/a%2Fb%3Fc", http.StatusOK, map[string]any{"id": "a/b?c"}).
		On(http.MethodGet, apiBase+"/todo/lists/a%2Fb%3Fc/tasks/t%2F1", http.StatusOK, map[string]any{"id": "t/1"})

	list, err := GetTaskList(context.Background(), c, "a/b?c")
	require.NoError(t, err)
	task, err := list.Task(context.Background(), "t/1")
	require.NoError(t, err)
	assert.Equal(t, "t/1", task.ID())
	assert.Empty(t, p.Pending())
}

func TestRefreshClearsStaleFields(t *testing.T) {
	p, c := setup(t)
	list := persistedList(t, c)
	task, err := TaskFromMapping(c, list, taskExample())
	require.NoError(t, err)

	p.On(http.MethodGet, apiBase+"/todo/lists/id-1/tasks/task-1", http.StatusOK, map[string]any{
		"id":    "task-1",
		"title": "Task-1",
		"checklistItems": []any{
			map[string]any{"id": "sub-1", "displayName": "Sub-1", "isChecked": false},
			map[string]any{"id": "sub-2", "displayName": "Sub-2"},
		},
	})
	task.SetTitle("local change")

	require.NoError(t, task.Refresh(context.Background()))
	assert.Equal(t, "Task-1", task.Title())
	assert.False(t, task.IsReminderOn())
	_, ok := task.Reminder()
	assert.False(t, ok)
	assert.Equal(t, models.ImportanceNormal, task.Importance())
	require.Len(t, task.Subtasks(), 2)
	for _, s := range task.Subtasks() {
		assert.Same(t, task, s.Task())
	}
	assert.Equal(t, "checklistItems", p.Calls[0].Params.Get("$expand"))
}

func TestUpdateSavesSubtasks(t *testing.T) {
	p, c := setup(t)
	list := persistedList(t, c)
	task, err := TaskFromMapping(c, list, taskExample())
	require.NoError(t, err)

	task.Subtasks()[0].Uncheck()
	task.AddSubtask("Sub-2")
	task.SetImportance(models.ImportanceLow)

	taskURL := apiBase + "/todo/lists/id-1/tasks/task-1"
	p.On(http.MethodPatch, taskURL, http.StatusOK, map[string]any{"id": "task-1", "importance": "low"}).
		On(http.MethodPatch, taskURL+"/checklistItems/sub-1", http.StatusOK, map[string]any{"id": "sub-1", "isChecked": false}).
		On(http.MethodPost, taskURL+"/checklistItems", http.StatusCreated, map[string]any{"id": "sub-2", "displayName": "Sub-2"})

	require.NoError(t, task.Update(context.Background()))

	require.Len(t, p.Calls, 3)
	assert.Equal(t, "low", p.Calls[0].Body["importance"])
	assert.NotContains(t, p.Calls[0].Body, "checklistItems")
	assert.Equal(t, false, p.Calls[1].Body["isChecked"])
	assert.Equal(t, convert.Mapping{"displayName": "Sub-2", "isChecked": false}, p.Calls[2].Body)
	assert.Equal(t, "sub-2", task.Subtasks()[1].ID())
	assert.Equal(t, "Task-1", task.Title())
	assert.Empty(t, p.Pending())
}

func TestCreateTaskCreatesSubtasks(t *testing.T) {
	p, c := setup(t)
	list := persistedList(t, c)
	task := NewTask(c, "Task-1")
	task.AddSubtask("Sub-1")

	p.On(http.MethodPost, apiBase+"/todo/lists/id-1/tasks", http.StatusCreated, map[string]any{"id": "new-id"}).
		On(http.MethodPost, apiBase+"/todo/lists/id-1/tasks/new-id/checklistItems", http.StatusCreated, map[string]any{"id": "sub-1"})

	require.NoError(t, list.SaveTask(context.Background(), task))
	assert.Equal(t, "sub-1", task.Subtasks()[0].ID())
}

func TestDeleteSubtask(t *testing.T) {
	p, c := setup(t)
	task, err := TaskFromMapping(c, persistedList(t, c), taskExample())
	require.NoError(t, err)
	p.On(http.MethodDelete, apiBase+"/todo/lists/id-1/tasks/task-1/checklistItems/sub-1", http.StatusNoContent, nil)

	require.NoError(t, task.Subtasks()[0].Delete(context.Background()))
	assert.Empty(t, task.Subtasks())
}

func TestTasksPagination(t *testing.T) {
	p, c := setup(t)
	list := persistedList(t, c)
	tasksURL := apiBase + "/todo/lists/id-1/tasks"
	p.On(http.MethodGet, tasksURL, http.StatusOK, map[string]any{
		"value":           []any{map[string]any{"id": "1", "title": "a"}},
		"@odata.nextLink": tasksURL + "?$skip=1",
	}).On(http.MethodGet, tasksURL+"?$skip=1", http.StatusOK, map[string]any{
		"value":           []any{map[string]any{"id": "2", "title": "b"}},
		"@odata.nextLink": tasksURL + "?$skip=2",
	}).On(http.MethodGet, tasksURL+"?$skip=2", http.StatusOK, map[string]any{
		"value": []any{map[string]any{"id": "3", "title": "c"}},
	})

	tasks, err := list.OpenTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, tasks[i].Title())
		assert.Same(t, list, tasks[i].TaskList())
	}
	assert.Equal(t, "status ne 'completed'", p.Calls[0].Params.Get("$filter"))
}

func TestTasksWithWindowsTimeZone(t *testing.T) {
	p, c := setup(t)
	list := persistedList(t, c)
	p.On(http.MethodGet, apiBase+"/todo/lists/id-1/tasks", http.StatusOK, map[string]any{
		"value": []any{
			map[string]any{
				"id":               "1",
				"title":            "a",
				"reminderDateTime": map[string]any{"dateTime": "2020-05-21T09:00:00.0000000", "timeZone": "W. Europe Standard Time"},
			},
			map[string]any{"id": "2", "title": "b"},
		},
	})

	tasks, err := list.Tasks(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	reminder, ok := tasks[0].Reminder()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 5, 21, 7, 0, 0, 0, time.UTC), reminder.UTC())
}

func TestTaskLists(t *testing.T) {
	p, c := setup(t)
	p.On(http.MethodGet, apiBase+"/todo/lists", http.StatusOK, map[string]any{
		"value": []any{taskListExample, map[string]any{"id": "id-2", "displayName": "Other"}},
	})

	lists, err := TaskLists(context.Background(), c, "")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "list-name", lists[0].Name())
	assert.Equal(t, "Other", lists[1].Name())
}

func TestDueFallsBackToRecurrenceStart(t *testing.T) {
	task := NewTask(nil, "Task-1")
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	task.SetRecurrence(recurrence.New(recurrence.NewDaily(1), recurrence.NewNoEnd(start)))

	due, ok := task.Due()
	require.True(t, ok)
	assert.Equal(t, start, due)

	m, err := task.ToMapping()
	require.NoError(t, err)
	assert.Equal(t, convert.Mapping{"dateTime": "2021-01-01T00:00:00.000000", "timeZone": "UTC"}, m["dueDateTime"])
	assert.Equal(t, convert.Mapping{
		"pattern": convert.Mapping{"type": "daily", "interval": 1},
		"range":   convert.Mapping{"type": "noEnd"},
	}, m["recurrence"])

	own := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	task.SetDue(own)
	due, _ = task.Due()
	assert.Equal(t, own, due)
}

func TestCompleteAndReminder(t *testing.T) {
	task := NewTask(nil, "Task-1")
	task.Complete()
	assert.True(t, task.IsCompleted())

	task.SetReminder(time.Date(2020, 1, 1, 9, 0, 0, 0, time.UTC))
	assert.True(t, task.IsReminderOn())
	task.SetReminder(time.Time{})
	assert.False(t, task.IsReminderOn())
	_, ok := task.Reminder()
	assert.False(t, ok)
}
