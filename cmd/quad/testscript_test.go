package main

import (
	"testing"

	"github.com/amonks/quadrant/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
)

var scriptCmds = map[string]func(ts *testscript.TestScript, neg bool, args []string){
	"todoid":   testsupport.CmdTodoID,
	"recordid": testsupport.CmdRecordID,
}

func runScripts(t *testing.T, dir string) {
	testscript.Run(t, testscript.Params{
		Dir: dir,
		Setup: func(env *testscript.Env) error {
			return testsupport.SetupScriptEnv(t, env)
		},
		Cmds: scriptCmds,
	})
}

func TestTodoScripts(t *testing.T) {
	runScripts(t, "testdata/todo")
}

func TestCategoryScripts(t *testing.T) {
	runScripts(t, "testdata/category")
}

func TestIdentityScripts(t *testing.T) {
	runScripts(t, "testdata/identity")
}

func TestViewScripts(t *testing.T) {
	runScripts(t, "testdata/view")
}

func TestBackupScripts(t *testing.T) {
	runScripts(t, "testdata/backup")
}

func TestReminderScripts(t *testing.T) {
	runScripts(t, "testdata/reminders")
}
