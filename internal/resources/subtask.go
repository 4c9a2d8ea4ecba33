package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/convert"
	"github.com/samber/lo"
)

var subtaskSchema = convert.NewSchema("Subtask",
	convert.NewField("id", "id", convert.String, convert.ReadOnly()),
	convert.NewField("name", "displayName", convert.String),
	convert.NewField("isChecked", "isChecked", convert.Boolean, convert.WithDefault(false)),
	convert.NewField("createdDateTime", "createdDateTime", convert.IsoTime, convert.ReadOnly()),
	convert.NewField("checkedDateTime", "checkedDateTime", convert.IsoTime, convert.ReadOnly()),
)

// Subtask is a checklist item of a task.
type Subtask struct {
	resource
	task *Task
}

func NewSubtask(c client.ResourceClient, name string) *Subtask {
	s := &Subtask{resource: newResource(subtaskSchema, c)}
	if name != "" {
		s.set("name", name)
	}
	return s
}

func SubtaskFromMapping(c client.ResourceClient, task *Task, wire convert.Mapping) (*Subtask, error) {
	return convert.Build(subtaskSchema, wire, func(convert.Values) (*Subtask, error) {
		s := NewSubtask(c, "")
		if err := s.SetTask(task); err != nil {
			return nil, err
		}
		return s, nil
	})
}

func (s *Subtask) Task() *Task {
	return s.task
}

// SetTask binds s to task; moving a subtask to another task fails with
// ErrUnsupportedOperation.
func (s *Subtask) SetTask(task *Task) error {
	if task == nil {
		return nil
	}
	if s.task != nil {
		if s.task != task && !s.task.Equal(task) {
			return fmt.Errorf("move %s to %s: %w", s, task, ErrUnsupportedOperation)
		}
		return nil
	}
	s.task = task
	return nil
}

func (s *Subtask) Name() string {
	return convert.Get[string](s.rec, "name")
}

func (s *Subtask) SetName(name string) {
	s.set("name", name)
}

func (s *Subtask) IsChecked() bool {
	return convert.Get[bool](s.rec, "isChecked")
}

func (s *Subtask) Check() {
	s.set("isChecked", true)
}

func (s *Subtask) Uncheck() {
	s.set("isChecked", false)
}

func (s *Subtask) CreatedAt() (time.Time, bool) {
	return convert.Lookup[time.Time](s.rec, "createdDateTime")
}

func (s *Subtask) CheckedAt() (time.Time, bool) {
	return convert.Lookup[time.Time](s.rec, "checkedDateTime")
}

func (s *Subtask) Equal(other *Subtask) bool {
	return s != nil && other != nil && s.sameID(other.ID())
}

func (s *Subtask) String() string {
	return fmt.Sprintf("Subtask %q", s.Name())
}

func (s *Subtask) collectionEndpoint() (string, error) {
	if s.task == nil {
		return "", ErrTaskNotSpecified
	}
	e, err := s.task.ManagingEndpoint()
	if err != nil {
		return "", err
	}
	return e + "/checklistItems", nil
}

func (s *Subtask) ManagingEndpoint() (string, error) {
	items, err := s.collectionEndpoint()
	if err != nil {
		return "", err
	}
	return s.endpoint(items)
}

func (s *Subtask) Create(ctx context.Context) error {
	if s.ID() != "" {
		return lifecycleError("create", s, ErrResourceAlreadyCreated)
	}
	items, err := s.collectionEndpoint()
	if err == nil {
		err = s.create(ctx, items)
	}
	if err != nil {
		return lifecycleError("create", s, err)
	}
	return nil
}

func (s *Subtask) Update(ctx context.Context) error {
	e, err := s.ManagingEndpoint()
	if err == nil {
		err = s.update(ctx, e)
	}
	if err != nil {
		return lifecycleError("update", s, err)
	}
	return nil
}

func (s *Subtask) Refresh(ctx context.Context) error {
	e, err := s.ManagingEndpoint()
	if err == nil {
		err = s.refresh(ctx, e, nil)
	}
	if err != nil {
		return lifecycleError("refresh", s, err)
	}
	return nil
}

// Delete removes the item on the server and from its task.
func (s *Subtask) Delete(ctx context.Context) error {
	e, err := s.ManagingEndpoint()
	if err == nil {
		err = s.delete(ctx, e)
	}
	if err != nil {
		return lifecycleError("delete", s, err)
	}
	remaining := lo.Reject(s.task.Subtasks(), func(other *Subtask, _ int) bool { return other == s })
	s.task.rec.Force("subtasks", remaining)
	return nil
}

// subtaskConverter decodes checklist items embedded in a task. The owning
// task binds them after decoding.
type subtaskConverter struct{}

func (subtaskConverter) FromWire(wire any) (any, error) {
	m, ok := wire.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: checklist item from %T", convert.ErrParse, wire)
	}
	return SubtaskFromMapping(nil, nil, m)
}

func (subtaskConverter) ToWire(value any) (any, error) {
	s, ok := value.(*Subtask)
	if !ok {
		return nil, fmt.Errorf("checklist item converter got %T", value)
	}
	return s.ToMapping()
}
