package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/homework-tracker/internal/storage"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
)

// withServices swaps the package-level services for the duration of a test.
func withServices(t *testing.T, store storage.TaskStore, viewer TaskViewer) {
	t.Helper()
	origStore, origViewer, origEvents, origMetrics, origNow := Store, Viewer, EventLog, MetricsCalc, Now
	origFile := storeFile
	t.Cleanup(func() {
		Store, Viewer, EventLog, MetricsCalc, Now = origStore, origViewer, origEvents, origMetrics, origNow
		storeFile = origFile
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	Store = store
	Viewer = viewer
	EventLog = nil
	MetricsCalc = nil
	storeFile = ""
	Now = func() time.Time { return shellNow }
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := Execute()
	return stdout.String(), err
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() {
		appVersion, appCommit, appDate = origVersion, origCommit, origDate
	}()

	SetVersionInfo("1.2.3", "abc1234", "2024-04-21")

	if appVersion != "1.2.3" {
		t.Errorf("appVersion = %q, want 1.2.3", appVersion)
	}
	if appCommit != "abc1234" {
		t.Errorf("appCommit = %q, want abc1234", appCommit)
	}
	if appDate != "2024-04-21" {
		t.Errorf("appDate = %q, want 2024-04-21", appDate)
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	withServices(t, &fakeStore{}, &fakeViewer{})

	_, err := execute(t, "", "nonexistent-command")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecute_VersionSubcommand(t *testing.T) {
	withServices(t, &fakeStore{}, &fakeViewer{})
	origVersion, origCommit, origDate := appVersion, appCommit, appDate
	defer func() {
		appVersion, appCommit, appDate = origVersion, origCommit, origDate
	}()
	SetVersionInfo("test-ver", "test-commit", "test-date")

	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hwt test-ver") || !strings.Contains(out, "test-commit") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestCommand_Registration(t *testing.T) {
	want := map[string]bool{"version": false, "view": false, "add": false, "list": false, "stats": false, "mcp": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s command not registered on root", name)
		}
	}
}

func TestRoot_RunsShell(t *testing.T) {
	store := &fakeStore{}
	viewer := &fakeViewer{}
	withServices(t, store, viewer)

	out, err := execute(t, "2\nMath\nChapter 4\n2024-05-01\nCritical\n1\n3\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.tasks) != 1 || store.tasks[0].LoggedAt != "2024-04-21 18:30:05" {
		t.Errorf("stored tasks = %+v", store.tasks)
	}
	if len(viewer.shown) != 1 {
		t.Errorf("expected one view, got %d", len(viewer.shown))
	}
	if !strings.Contains(out, "Exiting Homework Tracker. Goodbye!") {
		t.Errorf("missing goodbye in output:\n%s", out)
	}
}

func TestRoot_EachViewGetsLiveContext(t *testing.T) {
	viewer := &ctxViewer{}
	withServices(t, &fakeStore{}, viewer)

	if _, err := execute(t, "1\n1\n3\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if viewer.calls != 2 {
		t.Fatalf("expected 2 views, got %d", viewer.calls)
	}
	if viewer.ctxErr != nil {
		t.Errorf("context already done inside View: %v", viewer.ctxErr)
	}
}

func TestInterruptible_StopsHandlerAfterView(t *testing.T) {
	inner := &ctxViewer{}
	v := interruptible{inner}

	if err := v.View(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.ctx == nil || inner.ctx.Err() == nil {
		t.Error("view context should be released once the view returns")
	}
}

func TestRoot_NotInitialized(t *testing.T) {
	withServices(t, nil, nil)

	_, err := execute(t, "3\n")
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}

func TestRoot_FileFlagOverridesStore(t *testing.T) {
	withServices(t, &fakeStore{}, &fakeViewer{})
	path := filepath.Join(t.TempDir(), "other.csv")

	if _, err := execute(t, "", "--file", path, "add", "--subject", "Math", "--priority", "Critical"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { addSubject, addPriority = "", "" })

	tasks, err := storage.NewTaskStore(path, nil).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if len(tasks) != 1 || tasks[0].Subject != "Math" {
		t.Errorf("tasks in override file = %+v", tasks)
	}
}

func TestViewCmd(t *testing.T) {
	store := &fakeStore{tasks: []models.Task{models.NewTask("Math", "d", "2024-05-01", models.PriorityCritical, shellNow)}}
	viewer := &fakeViewer{}
	withServices(t, store, viewer)
	events := &recordingEventLog{}
	EventLog = events

	if _, err := execute(t, "", "view"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(viewer.shown) != 1 || len(viewer.shown[0]) != 1 {
		t.Errorf("viewer calls = %+v", viewer.shown)
	}
	if len(events.events) != 2 {
		t.Errorf("expected open and close events, got %v", events.types())
	}
}

func TestViewCmd_NilViewer(t *testing.T) {
	withServices(t, &fakeStore{}, nil)

	err := viewCmd.RunE(viewCmd, []string{})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}

func TestViewCmd_ContextIsLive(t *testing.T) {
	viewer := &ctxViewer{}
	withServices(t, &fakeStore{}, viewer)

	if err := viewCmd.RunE(viewCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if viewer.ctxErr != nil {
		t.Errorf("context already done inside View: %v", viewer.ctxErr)
	}
}

type ctxViewer struct {
	ctx    context.Context
	ctxErr error
	calls  int
}

func (c *ctxViewer) View(ctx context.Context, _ []models.Task) error {
	c.calls++
	c.ctx = ctx
	if err := ctx.Err(); err != nil {
		c.ctxErr = err
	}
	return nil
}
