package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

func newTaskSvc(tasks *stubTaskRepo, users *stubUserRepo) *TaskService {
	return NewTaskService(tasks, users, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskService_Create_Success(t *testing.T) {
	c := customer("c1")
	tasks := newStubTaskRepo()
	svc := newTaskSvc(tasks, newStubUserRepo(c))

	task, err := svc.Create(context.Background(), callerOf(c), ports.CreateTaskInput{
		Title:            "Build a landing page",
		BudgetRange:      domain.BudgetRange{Min: 1000, Max: 2000},
		AISuggestedPrice: 1500,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if task.Status != domain.TaskPending {
		t.Errorf("expected pending, got %s", task.Status)
	}
	if task.CustomerID != "c1" || task.DeveloperID != "" {
		t.Errorf("unexpected participants: %+v", task)
	}
	if task.TechStack == nil {
		t.Errorf("expected empty tech stack, got nil")
	}
	if _, err := tasks.FindByID(context.Background(), task.ID); err != nil {
		t.Errorf("task not persisted: %v", err)
	}
}

func TestTaskService_Create_UnregisteredCaller(t *testing.T) {
	svc := newTaskSvc(newStubTaskRepo(), newStubUserRepo())

	_, err := svc.Create(context.Background(), domain.Caller{Identity: "ghost"}, ports.CreateTaskInput{Title: "x"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestTaskService_Create_AnonymousCaller(t *testing.T) {
	svc := newTaskSvc(newStubTaskRepo(), newStubUserRepo())

	_, err := svc.Create(context.Background(), domain.Caller{}, ports.CreateTaskInput{Title: "x"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got: %v", err)
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	c := customer("c1")
	svc := newTaskSvc(newStubTaskRepo(), newStubUserRepo(c))

	cases := map[string]ports.CreateTaskInput{
		"missing title":  {BudgetRange: domain.BudgetRange{Min: 1, Max: 2}},
		"inverted range": {Title: "x", BudgetRange: domain.BudgetRange{Min: 5, Max: 2}},
	}
	for name, in := range cases {
		if _, err := svc.Create(context.Background(), callerOf(c), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got: %v", name, err)
		}
	}
}

func TestTaskService_Create_RepoError(t *testing.T) {
	c := customer("c1")
	tasks := newStubTaskRepo()
	tasks.createErr = errBoom
	svc := newTaskSvc(tasks, newStubUserRepo(c))

	_, err := svc.Create(context.Background(), callerOf(c), ports.CreateTaskInput{Title: "x"})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected repo error to propagate, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// List / Detail
// ---------------------------------------------------------------------------

func TestTaskService_List_DefaultsToOpenStatuses(t *testing.T) {
	c := customer("c1")
	repo := newStubTaskRepo(
		taskIn("t1", "c1", "", domain.TaskPending),
		taskIn("t2", "c1", "d1", domain.TaskWorking),
		taskIn("t3", "c1", "", domain.TaskCancelled),
		taskIn("t4", "c1", "d1", domain.TaskCompleted),
	)
	svc := newTaskSvc(repo, newStubUserRepo(c))

	views, err := svc.List(context.Background(), ports.ListTasksInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 open tasks, got %d", len(views))
	}
	for _, v := range views {
		if v.CustomerInfo == nil || v.CustomerInfo.ID != "c1" {
			t.Errorf("expected customer profile on %s", v.ID)
		}
	}
}

func TestTaskService_List_Filters(t *testing.T) {
	cheap := taskIn("cheap", "c1", "", domain.TaskPending)
	cheap.FinalPrice = 500
	cheap.TechStack = []string{"vue"}
	pricey := taskIn("pricey", "c1", "", domain.TaskPending)
	pricey.FinalPrice = 5000
	done := taskIn("done", "c1", "d1", domain.TaskCompleted)
	svc := newTaskSvc(newStubTaskRepo(cheap, pricey, done), newStubUserRepo(customer("c1")))

	maxPrice := 1000.0
	views, err := svc.List(context.Background(), ports.ListTasksInput{MaxPrice: &maxPrice})
	if err != nil || len(views) != 1 || views[0].ID != "cheap" {
		t.Fatalf("max price filter: got %v, %v", views, err)
	}

	views, err = svc.List(context.Background(), ports.ListTasksInput{TechStack: []string{"vue", "react"}})
	if err != nil || len(views) != 1 || views[0].ID != "cheap" {
		t.Fatalf("tech stack filter: got %v, %v", views, err)
	}

	views, err = svc.List(context.Background(), ports.ListTasksInput{Status: domain.TaskCompleted})
	if err != nil || len(views) != 1 || views[0].ID != "done" {
		t.Fatalf("status filter: got %v, %v", views, err)
	}

	if _, err := svc.List(context.Background(), ports.ListTasksInput{Status: "bogus"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got: %v", err)
	}
}

func TestTaskService_List_NewestFirstCappedAt50(t *testing.T) {
	repo := newStubTaskRepo()
	base := time.Now().UTC()
	for i := 0; i < 60; i++ {
		tk := taskIn(string(rune('A'+i)), "c1", "", domain.TaskPending)
		tk.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		repo.byID[tk.ID] = tk
	}
	svc := newTaskSvc(repo, newStubUserRepo(customer("c1")))

	views, err := svc.List(context.Background(), ports.ListTasksInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 50 {
		t.Fatalf("expected 50 tasks, got %d", len(views))
	}
	for i := 1; i < len(views); i++ {
		if views[i].CreatedAt.After(views[i-1].CreatedAt) {
			t.Fatalf("tasks not sorted newest first at %d", i)
		}
	}
}

func TestTaskService_Detail(t *testing.T) {
	svc := newTaskSvc(
		newStubTaskRepo(taskIn("t1", "c1", "d1", domain.TaskGrabbed)),
		newStubUserRepo(customer("c1"), developer("d1")),
	)

	v, err := svc.Detail(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.CustomerInfo == nil || v.DeveloperInfo == nil {
		t.Fatalf("expected both profiles, got %+v", v)
	}

	if _, err := svc.Detail(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestTaskService_MyPublishedAndGrabbed(t *testing.T) {
	c, d := customer("c1"), developer("d1")
	svc := newTaskSvc(
		newStubTaskRepo(
			taskIn("t1", "c1", "d1", domain.TaskGrabbed),
			taskIn("t2", "c1", "", domain.TaskPending),
			taskIn("t3", "c2", "", domain.TaskPending),
		),
		newStubUserRepo(c, d),
	)

	published, err := svc.MyPublished(context.Background(), callerOf(c))
	if err != nil || len(published) != 2 {
		t.Fatalf("expected 2 published tasks, got %d (%v)", len(published), err)
	}

	grabbed, err := svc.MyGrabbed(context.Background(), callerOf(d))
	if err != nil || len(grabbed) != 1 {
		t.Fatalf("expected 1 grabbed task, got %d (%v)", len(grabbed), err)
	}
	if grabbed[0].OtherUserInfo == nil || grabbed[0].OtherUserInfo.ID != "c1" {
		t.Errorf("expected customer as other user, got %+v", grabbed[0].OtherUserInfo)
	}
}

// ---------------------------------------------------------------------------
// Grab / Cancel
// ---------------------------------------------------------------------------

func TestTaskService_Grab_Success(t *testing.T) {
	d := developer("d1")
	repo := newStubTaskRepo(taskIn("t1", "c1", "", domain.TaskPending))
	svc := newTaskSvc(repo, newStubUserRepo(customer("c1"), d))

	task, err := svc.Grab(context.Background(), callerOf(d), "t1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if task.Status != domain.TaskGrabbed || task.DeveloperID != "d1" {
		t.Errorf("unexpected task after grab: %+v", task)
	}
}

func TestTaskService_Grab_OwnTaskForbiddenRegardlessOfRole(t *testing.T) {
	// A developer-role user who also posted the task.
	owner := developer("u1")
	repo := newStubTaskRepo(taskIn("t1", "u1", "", domain.TaskPending))
	svc := newTaskSvc(repo, newStubUserRepo(owner))

	_, err := svc.Grab(context.Background(), callerOf(owner), "t1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
	if repo.get("t1").Status != domain.TaskPending {
		t.Errorf("task must stay pending")
	}
}

func TestTaskService_Grab_CustomerRoleForbidden(t *testing.T) {
	other := customer("c2")
	svc := newTaskSvc(newStubTaskRepo(taskIn("t1", "c1", "", domain.TaskPending)), newStubUserRepo(other))

	if _, err := svc.Grab(context.Background(), callerOf(other), "t1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got: %v", err)
	}
}

func TestTaskService_Grab_NotPending(t *testing.T) {
	d := developer("d2")
	svc := newTaskSvc(newStubTaskRepo(taskIn("t1", "c1", "d1", domain.TaskGrabbed)), newStubUserRepo(d))

	if _, err := svc.Grab(context.Background(), callerOf(d), "t1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got: %v", err)
	}
}

func TestTaskService_Grab_ConcurrentExactlyOneWins(t *testing.T) {
	d1, d2 := developer("d1"), developer("d2")
	repo := newStubTaskRepo(taskIn("t1", "c1", "", domain.TaskPending))

	// Both callers pass the pending check before either writes.
	var ready sync.WaitGroup
	ready.Add(2)
	repo.beforeTransition = func() {
		ready.Done()
		ready.Wait()
	}
	svc := newTaskSvc(repo, newStubUserRepo(d1, d2))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, dev := range []*domain.User{d1, d2} {
		wg.Add(1)
		go func(i int, dev *domain.User) {
			defer wg.Done()
			_, errs[i] = svc.Grab(context.Background(), callerOf(dev), "t1")
		}(i, dev)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", ok, conflicts)
	}

	winner := repo.get("t1").DeveloperID
	if winner != "d1" && winner != "d2" {
		t.Fatalf("unexpected developer %q", winner)
	}
}

func TestTaskService_Cancel(t *testing.T) {
	c, other := customer("c1"), customer("c2")
	repo := newStubTaskRepo(
		taskIn("pending", "c1", "", domain.TaskPending),
		taskIn("grabbed", "c1", "d1", domain.TaskGrabbed),
	)
	svc := newTaskSvc(repo, newStubUserRepo(c, other))

	if _, err := svc.Cancel(context.Background(), callerOf(other), "pending"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner: expected ErrForbidden, got: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), callerOf(c), "grabbed"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("after grab: expected ErrInvalidState, got: %v", err)
	}
	task, err := svc.Cancel(context.Background(), callerOf(c), "pending")
	if err != nil {
		t.Fatalf("owner cancel: unexpected error: %v", err)
	}
	if task.Status != domain.TaskCancelled {
		t.Errorf("expected cancelled, got %s", task.Status)
	}
}

func TestTaskService_Estimate(t *testing.T) {
	svc := newTaskSvc(newStubTaskRepo(), newStubUserRepo())

	est, err := svc.Estimate(ports.EstimateInput{
		BudgetRange: domain.BudgetRange{Min: 1000, Max: 2000},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.SuggestedPrice != 1500 {
		t.Errorf("expected 1500, got %v", est.SuggestedPrice)
	}
}
