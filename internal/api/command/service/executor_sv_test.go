package commandService

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	commandRepository "EchoOS/internal/api/command/repository"
	"EchoOS/internal/entity"
)

type mockRunner struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (m *mockRunner) record(name string, args []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string{name}, args...))
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.record(name, args)
	return m.err
}

func (m *mockRunner) Start(ctx context.Context, name string, args ...string) error {
	m.record(name, args)
	return m.err
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	m.record(name, args)
	return "", m.err
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockRunner) lastCall() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

type mockLogs struct {
	mu      sync.Mutex
	records []entity.CommandLog
}

func (m *mockLogs) Append(ctx context.Context, record entity.CommandLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockLogs) Recent(ctx context.Context, limit int) ([]entity.CommandLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.CommandLog, len(m.records))
	copy(out, m.records)
	return out, nil
}

type mockCommandRepo struct {
	logs *mockLogs
}

func (m *mockCommandRepo) NewClient() commandRepository.Client {
	return commandRepository.Client{Logs: m.logs}
}

type mockSysinfo struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (m *mockSysinfo) answer(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return "", errors.New("probe failed")
	}
	return text, nil
}

func (m *mockSysinfo) SystemSummary(ctx context.Context) (string, error) {
	return m.answer(ctx, "System: test")
}
func (m *mockSysinfo) Battery(ctx context.Context) (string, error) {
	return m.answer(ctx, "Battery at 80 percent")
}
func (m *mockSysinfo) DiskSpace(ctx context.Context) (string, error) {
	return m.answer(ctx, "Disk: plenty")
}
func (m *mockSysinfo) Memory(ctx context.Context) (string, error) {
	return m.answer(ctx, "Memory: fine")
}
func (m *mockSysinfo) CPU(ctx context.Context) (string, error) {
	return m.answer(ctx, "CPU usage is 5 percent")
}
func (m *mockSysinfo) Network(ctx context.Context) (string, error) {
	return m.answer(ctx, "Network is connected")
}

type executorFixture struct {
	executor *executorDomainImpl
	runner   *mockRunner
	logs     *mockLogs
	info     *mockSysinfo
}

func newExecutorFixture() *executorFixture {
	runner := &mockRunner{}
	logs := &mockLogs{}
	info := &mockSysinfo{}

	executor := &executorDomainImpl{
		log: testLogger(),
		registry: entity.AppRegistry{
			Apps: []entity.AppRegistryEntry{
				{Name: "chrome", Path: "/usr/bin/google-chrome", Aliases: []string{"browser"}},
			},
		},
		repo:   &mockCommandRepo{logs: logs},
		runner: runner,
		info:   info,
		utils:  &mockUtilsCommand{},
		opts: Options{
			MatchThreshold: 0.6,
			CommandTimeout: 10 * time.Second,
			VolumeStepMin:  1,
			VolumeStepMax:  50,
			QueueSize:      16,
		},
	}

	return &executorFixture{executor: executor, runner: runner, logs: logs, info: info}
}

func newCommand(category entity.CommandCategory, intent string, params map[string]string) entity.Command {
	if params == nil {
		params = map[string]string{}
	}
	return entity.Command{
		Category:   category,
		Intent:     intent,
		Parameters: params,
		RawText:    "test transcript",
		Confidence: 0.9,
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice", entity.UnknownCommand("gibberish"))
	if result.Success {
		t.Error("unknown command must not succeed")
	}
	if result.ErrorKind != "unknown_command" {
		t.Errorf("error kind = %q, want unknown_command", result.ErrorKind)
	}
	if f.runner.callCount() != 0 {
		t.Error("unknown command must not spawn a process")
	}
	if len(f.logs.records) != 1 {
		t.Errorf("log records = %d, want 1", len(f.logs.records))
	}
}

func TestExecuteSystemCommand(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice", newCommand(entity.CategorySystem, "shutdown", nil))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if f.runner.callCount() != 1 {
		t.Errorf("runner calls = %d, want 1", f.runner.callCount())
	}
}

func TestExecuteAppOpen(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryApp, "open", map[string]string{"app_name": "chrome"}))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}

	call := f.runner.lastCall()
	if len(call) != 1 || call[0] != "/usr/bin/google-chrome" {
		t.Errorf("argv = %v, want the registry path alone", call)
	}
}

func TestExecuteAppOpenByAlias(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryApp, "open", map[string]string{"app_name": "browser"}))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
}

func TestExecuteAppNotFound(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryApp, "open", map[string]string{"app_name": "photoshop"}))
	if result.Success {
		t.Error("unknown app must not succeed")
	}
	if result.ErrorKind != "application_not_found" {
		t.Errorf("error kind = %q, want application_not_found", result.ErrorKind)
	}
	if f.runner.callCount() != 0 {
		t.Error("unknown app must not spawn a process")
	}
}

func TestExecuteFileRejectsHostileNames(t *testing.T) {
	f := newExecutorFixture()

	hostile := []string{
		"../../etc/passwd",
		"..",
		"a;rm -rf tmp",
		"file|name",
		"file&name",
		"file`name",
		"file$name",
		"file\nname",
		"dir/file",
		`dir\file`,
	}

	for _, name := range hostile {
		result := f.executor.Execute(context.Background(), "alice",
			newCommand(entity.CategoryFile, "delete_file", map[string]string{"filename": name}))
		if result.Success {
			t.Errorf("filename %q must be rejected", name)
		}
		if result.ErrorKind != "invalid_filename" {
			t.Errorf("filename %q: error kind = %q, want invalid_filename", name, result.ErrorKind)
		}
	}
}

func TestValidateFilename(t *testing.T) {
	valid := []string{"report.txt", "notes.md", "photo 1.jpg", "a.tar.gz"}
	for _, name := range valid {
		if err := validateFilename(name); err != nil {
			t.Errorf("validateFilename(%q) = %v, want nil", name, err)
		}
	}

	if err := validateFilename(""); err == nil {
		t.Error("empty filename must be rejected")
	}
}

func TestExecuteFileList(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	docs := filepath.Join(home, "Documents")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"report.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(docs, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(docs, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryFile, "list_files", nil))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	// Directories are not files.
	if result.Message != "Found 2 files" {
		t.Errorf("message = %q, want \"Found 2 files\"", result.Message)
	}
}

func TestExecuteFileMissingParameter(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryFile, "delete_file", nil))
	if result.Success {
		t.Error("missing filename must not succeed")
	}
	if result.ErrorKind != "missing_parameter" {
		t.Errorf("error kind = %q, want missing_parameter", result.ErrorKind)
	}
}

func TestExecuteWebSearchEscapesQuery(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryWeb, "search_google", map[string]string{"query": "cute cats & dogs"}))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}

	call := f.runner.lastCall()
	joined := strings.Join(call, " ")
	if !strings.Contains(joined, "q=cute+cats+%26+dogs") {
		t.Errorf("query must be URL-escaped, argv = %v", call)
	}
}

func TestWebsiteURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"google.com", "https://google.com"},
		{"google", "https://google.com"},
		{"http://example.org", "https://example.org"},
		{"sub.domain.net", "https://sub.domain.net"},
	}

	for _, tt := range tests {
		if got := websiteURL(tt.in); got != tt.want {
			t.Errorf("websiteURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExecuteVolumeRange(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryVolume, "up", map[string]string{"amount": "100"}))
	if result.Success {
		t.Error("a 100 percent step must be rejected")
	}
	if result.ErrorKind != "unsafe_volume_delta" {
		t.Errorf("error kind = %q, want unsafe_volume_delta", result.ErrorKind)
	}
	if f.runner.callCount() != 0 {
		t.Error("rejected volume change must not spawn a process")
	}

	result = f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryVolume, "up", map[string]string{"amount": "20"}))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if f.runner.callCount() != 1 {
		t.Errorf("runner calls = %d, want 1", f.runner.callCount())
	}
}

func TestExecuteVolumeDefaultStep(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryVolume, "down", nil))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if !strings.Contains(result.Message, "10") {
		t.Errorf("message = %q, want the default step", result.Message)
	}
}

func TestExecuteInfoTime(t *testing.T) {
	f := newExecutorFixture()

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryInfo, "time", nil))
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if !strings.HasPrefix(result.Message, "It is ") {
		t.Errorf("message = %q", result.Message)
	}
}

func TestExecuteInfoRetriesOnce(t *testing.T) {
	f := newExecutorFixture()
	f.info.failures = 1

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryInfo, "battery", nil))
	if !result.Success {
		t.Fatalf("one transient failure should be retried, result = %+v", result)
	}
	if f.info.calls != 2 {
		t.Errorf("probe calls = %d, want 2", f.info.calls)
	}
}

func TestExecuteInfoPersistentFailure(t *testing.T) {
	f := newExecutorFixture()
	f.info.failures = 10

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategoryInfo, "battery", nil))
	if result.Success {
		t.Error("persistent probe failure must not succeed")
	}
	if result.ErrorKind != "platform_query" {
		t.Errorf("error kind = %q, want platform_query", result.ErrorKind)
	}
}

func TestExecuteAutomationFailure(t *testing.T) {
	f := newExecutorFixture()
	f.runner.err = errors.New("spawn failed")

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategorySystem, "lock", nil))
	if result.Success {
		t.Error("a failed process spawn must not succeed")
	}
	if result.ErrorKind != "automation" {
		t.Errorf("error kind = %q, want automation", result.ErrorKind)
	}
}

func TestExecuteTimeout(t *testing.T) {
	f := newExecutorFixture()
	f.runner.err = context.DeadlineExceeded

	result := f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategorySystem, "restart", nil))
	if result.Success {
		t.Error("a timed-out command must not succeed")
	}
	if result.ErrorKind != "execution_timeout" {
		t.Errorf("error kind = %q, want execution_timeout", result.ErrorKind)
	}
}

func TestExecuteAppendsCommandLog(t *testing.T) {
	f := newExecutorFixture()

	f.executor.Execute(context.Background(), "alice",
		newCommand(entity.CategorySystem, "shutdown", nil))

	if len(f.logs.records) != 1 {
		t.Fatalf("log records = %d, want 1", len(f.logs.records))
	}
	record := f.logs.records[0]
	if record.Username != "alice" || record.Category != "system" || record.Intent != "shutdown" {
		t.Errorf("record = %+v", record)
	}
	if !record.Success {
		t.Error("record should mark success")
	}
}
