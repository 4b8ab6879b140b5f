package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	unlocked bool

	calls []string
	args  map[string]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string]string{}
	}
	f.args[name] = strings.Join(args, " ")
	return nil
}

func (f *fakeExec) isUnlocked() bool { return f.unlocked }
func (f *fakeExec) Setup(ctx context.Context) error {
	f.calls = append(f.calls, "setup")
	f.unlocked = true
	return nil
}
func (f *fakeExec) Unlock(ctx context.Context) error {
	f.calls = append(f.calls, "unlock")
	f.unlocked = true
	return nil
}
func (f *fakeExec) Lock(ctx context.Context) error {
	f.calls = append(f.calls, "lock")
	f.unlocked = false
	return nil
}
func (f *fakeExec) ChangePassword(ctx context.Context) error {
	f.calls = append(f.calls, "chpass")
	return nil
}
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) AddAccount(ctx context.Context) error {
	f.calls = append(f.calls, "add")
	return nil
}
func (f *fakeExec) ListAccounts(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}
func (f *fakeExec) ShowAccount(ctx context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) SearchAccounts(ctx context.Context, args []string) error {
	return f.record("search", args)
}
func (f *fakeExec) EditAccount(ctx context.Context, args []string) error {
	return f.record("edit", args)
}
func (f *fakeExec) RemoveAccounts(ctx context.Context, args []string) error {
	return f.record("rm", args)
}
func (f *fakeExec) MoveAccounts(ctx context.Context, args []string) error {
	return f.record("move", args)
}
func (f *fakeExec) CopyPassword(ctx context.Context, args []string) error {
	return f.record("copy", args)
}
func (f *fakeExec) ListGroups(ctx context.Context) error {
	f.calls = append(f.calls, "groups")
	return nil
}
func (f *fakeExec) AddGroup(ctx context.Context, args []string) error {
	return f.record("addgroup", args)
}
func (f *fakeExec) RemoveGroup(ctx context.Context, args []string) error {
	return f.record("rmgroup", args)
}
func (f *fakeExec) ListTags(ctx context.Context) error {
	f.calls = append(f.calls, "tags")
	return nil
}
func (f *fakeExec) AddTag(ctx context.Context, args []string) error {
	return f.record("addtag", args)
}
func (f *fakeExec) RemoveTag(ctx context.Context, args []string) error {
	return f.record("rmtag", args)
}
func (f *fakeExec) TagAccount(ctx context.Context, args []string) error {
	return f.record("tag", args)
}
func (f *fakeExec) UntagAccount(ctx context.Context, args []string) error {
	return f.record("untag", args)
}
func (f *fakeExec) ShowStats(ctx context.Context) error {
	f.calls = append(f.calls, "stats")
	return nil
}
func (f *fakeExec) ShowLog(ctx context.Context, args []string) error {
	return f.record("log", args)
}

func TestRunREPL_UnlockFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"unlock",
		"help",
		"add",
		"list",
		"show abc",
		"search big bank",
		"tag a1 t1",
		"stats",
		"log 5",
		"foobar",
		"lock",
		"exit",
	}, "\n"))

	exec := &fakeExec{unlocked: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"unlock", "add", "list", "show", "search", "tag", "stats", "log", "lock"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}

	if exec.args["show"] != "abc" {
		t.Fatalf("show args mismatch: %q", exec.args["show"])
	}
	if exec.args["search"] != "big bank" {
		t.Fatalf("search args mismatch: %q", exec.args["search"])
	}
	if exec.args["tag"] != "a1 t1" {
		t.Fatalf("tag args mismatch: %q", exec.args["tag"])
	}
}

func TestRunREPL_EmptyAndUnknownThenQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\nnope\nquit\n")
	exec := &fakeExec{unlocked: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("status\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "status" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
