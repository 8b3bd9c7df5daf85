package task

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newMemStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/board/tasks", 0o750))
	return NewStore(fs, "/board/tasks"), fs
}

func sample(id int, name string) *Task {
	return &Task{
		ID:        id,
		Name:      name,
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		Assignee:  "ana",
		DueDate:   "2026-10-20",
		ProjectID: "p1",
		Subtasks:  []string{"collect receipts"},
		Created:   t0,
		Updated:   t0,
		Body:      "Quarterly filing.",
	}
}

func TestEncodeDecode(t *testing.T) {
	in := sample(3, "File VAT return")
	data, err := Encode(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "due_date:")

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.DueDate, out.DueDate)
	assert.Equal(t, in.Subtasks, out.Subtasks)
	assert.Equal(t, "Quarterly filing.\n", out.Body)
}

func TestDecodeRejectsMissingFrontmatter(t *testing.T) {
	_, err := Decode([]byte("# just markdown\n"))
	require.Error(t, err)

	_, err = Decode([]byte("---\nid: 1\n"))
	require.Error(t, err)
}

func TestDecodeAcceptsCRLFAndBareClosingFence(t *testing.T) {
	tk, err := Decode([]byte("---\r\nid: 4\r\nname: Timesheet\r\nstatus: todo\r\n---\r\n\r\nNotes\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, tk.ID)
	assert.Equal(t, "Notes\n", tk.Body)

	tk, err = Decode([]byte("---\nid: 5\nname: x\nstatus: todo\n---"))
	require.NoError(t, err)
	assert.Equal(t, 5, tk.ID)
	assert.Empty(t, tk.Body)
}

func TestStoreCreateFindUpdate(t *testing.T) {
	s, fs := newMemStore(t)
	tk := sample(7, "Payroll run")
	require.NoError(t, s.Create(tk))
	assert.Equal(t, filepath.Join("/board/tasks", "007-payroll-run.md"), tk.File)

	path, err := s.FindByID(7)
	require.NoError(t, err)
	assert.Equal(t, tk.File, path)

	loaded, err := s.Load(7)
	require.NoError(t, err)
	assert.Equal(t, "Payroll run", loaded.Name)

	// Renaming moves the file.
	repl := loaded.Clone()
	repl.Name = "Payroll run October"
	require.NoError(t, s.UpdateTask(repl))
	exists, _ := afero.Exists(fs, path)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join("/board/tasks", "007-payroll-run-october.md"), repl.File)

	// Same replacement twice yields identical content.
	require.NoError(t, s.UpdateTask(repl))
	first, err := afero.ReadFile(fs, repl.File)
	require.NoError(t, err)
	require.NoError(t, s.UpdateTask(repl))
	second, err := afero.ReadFile(fs, repl.File)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStoreCreateRejectsDuplicate(t *testing.T) {
	s, _ := newMemStore(t)
	require.NoError(t, s.Create(sample(1, "A")))
	require.Error(t, s.Create(sample(1, "A")))
}

func TestFindByIDNotFound(t *testing.T) {
	s, _ := newMemStore(t)
	_, err := s.FindByID(42)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.TaskNotFound, cliErr.Code)
}

func TestUpdateTaskWithoutFileLooksUpByID(t *testing.T) {
	s, _ := newMemStore(t)
	require.NoError(t, s.Create(sample(2, "Audit prep")))

	repl := sample(2, "Audit prep")
	repl.Status = StatusBlocked
	require.NoError(t, s.UpdateTask(repl))

	got, err := s.Load(2)
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, got.Status)
}

func TestReadAllLenient(t *testing.T) {
	s, fs := newMemStore(t)
	require.NoError(t, s.Create(sample(1, "Good")))
	require.NoError(t, afero.WriteFile(fs, "/board/tasks/002-bad.md", []byte("no frontmatter"), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/board/tasks/003-noid.md", []byte("---\nname: No id\nstatus: todo\n---\n"), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/board/tasks/notes.txt", []byte("ignored"), 0o600))

	tasks, warnings, err := s.ReadAllLenient()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Len(t, warnings, 1)
	assert.Equal(t, "002-bad.md", warnings[0].File)
	assert.Equal(t, 3, tasks[1].ID)

	_, err = s.ReadAll()
	require.Error(t, err)
}

func TestReadAllLenientMissingDir(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "/nowhere")
	tasks, warnings, err := s.ReadAllLenient()
	require.NoError(t, err)
	assert.Nil(t, tasks)
	assert.Nil(t, warnings)
}

func TestSetStatus(t *testing.T) {
	tk := sample(1, "A")
	SetStatus(tk, StatusCompleted, t0)
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, t0, *tk.CompletedAt)

	// Completing again keeps the first stamp.
	later := t0.Add(time.Hour)
	SetStatus(tk, StatusCompleted, later)
	assert.Equal(t, t0, *tk.CompletedAt)

	SetStatus(tk, StatusTodo, later)
	assert.Nil(t, tk.CompletedAt)
	assert.Equal(t, later, tk.Updated)
}

func TestCloneIsDeep(t *testing.T) {
	tk := sample(1, "A")
	SetStatus(tk, StatusCompleted, t0)
	c := tk.Clone()
	c.Subtasks[0] = "changed"
	*c.CompletedAt = t0.Add(time.Hour)
	assert.Equal(t, "collect receipts", tk.Subtasks[0])
	assert.Equal(t, t0, *tk.CompletedAt)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sample(1, "A")))

	bad := sample(0, "")
	bad.TimeTracked = -5
	err := Validate(bad)
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.InvalidInput, cliErr.Code)
	assert.Len(t, cliErr.Details["fields"], 3)
}

func TestValidateHelpers(t *testing.T) {
	require.NoError(t, ValidateStatus("todo", []string{"todo"}))
	require.Error(t, ValidateStatus("done", []string{"todo"}))
	require.NoError(t, ValidatePriority("high", []string{"high"}))
	require.Error(t, ValidateProject("p9", []string{"p1"}))
	require.Error(t, ValidateTaskList("later", []string{"inbox"}))
	require.NoError(t, ValidateDueDate("2026-10-19"))
	require.Error(t, ValidateDueDate("tomorrow"))
}

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "file-vat-return-q3", GenerateSlug("File VAT return (Q3)!"))
	assert.Equal(t, "cafe-menu-fur-munchen", GenerateSlug("Café menu für München"))
	assert.Equal(t, "task", GenerateSlug("!!!"))

	long := GenerateSlug("prepare the quarterly invoice batch for every retained client account")
	assert.LessOrEqual(t, len(long), 50)
	assert.Equal(t, "prepare-the-quarterly-invoice-batch-for-every", long)

	assert.Equal(t, "001-a.md", GenerateFilename(1, "a"))
	assert.Equal(t, "1234-a.md", GenerateFilename(1234, "a"))
}
