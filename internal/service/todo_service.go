package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/filters"
	"github.com/TWRT/mstodo/internal/models"
	"github.com/TWRT/mstodo/internal/resources"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var ErrListNotFound = errors.New("task list not found")

type TodoService struct {
	client client.ResourceClient
	log    logrus.FieldLogger
}

func NewTodoService(c client.ResourceClient, log logrus.FieldLogger) *TodoService {
	return &TodoService{
		client: c,
		log:    log,
	}
}

// TaskQuery narrows Tasks. The zero value lists open tasks of any
// importance.
type TaskQuery struct {
	All        bool
	Importance models.Importance
}

func (q TaskQuery) Filter() string {
	var conds []filters.Cond
	if !q.All {
		conds = append(conds, filters.Field("status", filters.Ne(models.StatusCompleted)))
	}
	if q.Importance != "" {
		conds = append(conds, filters.Field("importance", filters.Eq(q.Importance)))
	}
	return filters.And(conds...)
}

type NewTask struct {
	Title      string
	Importance models.Importance
	Due        time.Time
	Body       string
	Subtasks   []string
}

func (s *TodoService) Lists(ctx context.Context) ([]*resources.TaskList, error) {
	lists, err := resources.TaskLists(ctx, s.client, "")
	if err != nil {
		return nil, fmt.Errorf("get task lists: %w", err)
	}
	return lists, nil
}

// FindList resolves ref as a list id first, then as a display name compared
// case-insensitively.
func (s *TodoService) FindList(ctx context.Context, ref string) (*resources.TaskList, error) {
	lists, err := s.Lists(ctx)
	if err != nil {
		return nil, err
	}
	if l, ok := lo.Find(lists, func(l *resources.TaskList) bool { return l.ID() == ref }); ok {
		return l, nil
	}
	if l, ok := lo.Find(lists, func(l *resources.TaskList) bool { return strings.EqualFold(l.Name(), ref) }); ok {
		return l, nil
	}
	return nil, fmt.Errorf("%q: %w", ref, ErrListNotFound)
}

func (s *TodoService) CreateList(ctx context.Context, name string) (*resources.TaskList, error) {
	l := resources.NewTaskList(s.client, name)
	if err := l.Create(ctx); err != nil {
		return nil, err
	}
	s.log.WithField("list_id", l.ID()).Info("task list created")
	return l, nil
}

func (s *TodoService) Tasks(ctx context.Context, listRef string, q TaskQuery) ([]*resources.Task, error) {
	l, err := s.FindList(ctx, listRef)
	if err != nil {
		return nil, err
	}
	tasks, err := l.Tasks(ctx, q.Filter())
	if err != nil {
		return nil, fmt.Errorf("get tasks of %s: %w", l, err)
	}
	s.log.WithFields(logrus.Fields{"list_id": l.ID(), "count": len(tasks)}).Debug("tasks fetched")
	return tasks, nil
}

func (s *TodoService) AddTask(ctx context.Context, listRef string, in NewTask) (*resources.Task, error) {
	l, err := s.FindList(ctx, listRef)
	if err != nil {
		return nil, err
	}

	t := resources.NewTask(s.client, in.Title)
	if in.Importance != "" {
		t.SetImportance(in.Importance)
	}
	if !in.Due.IsZero() {
		t.SetDue(in.Due)
	}
	if in.Body != "" {
		t.SetBody(models.Content{Value: in.Body, Type: models.ContentTypeText})
	}
	for _, name := range in.Subtasks {
		t.AddSubtask(name)
	}

	if err := l.SaveTask(ctx, t); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"list_id": l.ID(), "task_id": t.ID()}).Info("task created")
	return t, nil
}

func (s *TodoService) CompleteTask(ctx context.Context, listRef, taskID string) (*resources.Task, error) {
	l, err := s.FindList(ctx, listRef)
	if err != nil {
		return nil, err
	}
	t, err := l.Task(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	if t.IsCompleted() {
		return t, nil
	}
	t.Complete()
	if err := t.Update(ctx); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"list_id": l.ID(), "task_id": t.ID()}).Info("task completed")
	return t, nil
}

func (s *TodoService) DeleteTask(ctx context.Context, listRef, taskID string) error {
	l, err := s.FindList(ctx, listRef)
	if err != nil {
		return err
	}
	t, err := l.Task(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task %s: %w", taskID, err)
	}
	if err := t.Delete(ctx); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"list_id": l.ID(), "task_id": taskID}).Info("task deleted")
	return nil
}
