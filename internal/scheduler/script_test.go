package scheduler

import (
	"strings"
	"testing"

	"wintask/internal/task"
)

func mustTrigger(t *testing.T, freq task.Frequency, at string, on []string) task.Trigger {
	t.Helper()
	trig, err := task.NewTrigger(freq, at, on)
	if err != nil {
		t.Fatal(err)
	}
	return trig
}

func TestRegisterScriptComposition(t *testing.T) {
	d := task.Descriptor{
		Name:        "Nightly Train",
		Interpreter: `C:\Python312\python.exe`,
		Script:      `C:\ML Jobs\train.py`,
		Args:        []string{"--epochs", "10"},
		Trigger:     mustTrigger(t, task.FreqDaily, "22:00", nil),
		Description: "train the model",
	}

	got := registerScript(d)
	wantParts := []string{
		`$description = "train the model"; `,
		`$taskName = "Nightly Train"; `,
		`$action = New-ScheduledTaskAction -Execute "C:\Python312\python.exe" -Argument '"C:\ML Jobs\train.py" "--epochs" "10"'; `,
		`$trigger = New-ScheduledTaskTrigger -Daily -At 22:00; `,
		"Register-ScheduledTask -TaskName $taskName -Description $description -Action $action -Trigger $trigger | Out-Null",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("missing %q in:\n%s", part, got)
		}
	}
	if strings.Contains(got, "-User") || strings.Contains(got, "-Password") {
		t.Error("credentials must not appear without a user")
	}
}

func TestRegisterScriptCredentials(t *testing.T) {
	d := task.Descriptor{
		Name:        "Backup",
		Interpreter: `C:\Python312\python.exe`,
		Script:      `C:\jobs\backup.py`,
		Trigger:     mustTrigger(t, task.FreqDaily, "03:00", nil),
		User:        `CORP\svc-backup`,
	}

	got := registerScript(d)
	if !strings.Contains(got, `-User "CORP\svc-backup"`) {
		t.Errorf("missing user in: %s", got)
	}
	if strings.Contains(got, "-Password") {
		t.Error("password flag must not appear when no password is set")
	}

	d.Password = "s3cret"
	got = registerScript(d)
	if !strings.Contains(got, `-User "CORP\svc-backup" -Password "s3cret"`) {
		t.Errorf("missing credentials in: %s", got)
	}
}

func TestRegisterScriptDefaultDescription(t *testing.T) {
	d := task.Descriptor{
		Name:        "Job",
		Interpreter: "python.exe",
		Script:      "job.py",
		Trigger:     mustTrigger(t, task.FreqDaily, "12:00", nil),
	}
	if got := registerScript(d); !strings.Contains(got, `$description = "Scheduled Python script"; `) {
		t.Errorf("default description missing in: %s", got)
	}
}

func TestRegisterScriptQuotesEmbeddedQuotes(t *testing.T) {
	d := task.Descriptor{
		Name:        `The "Big" Job`,
		Interpreter: "python.exe",
		Script:      "job.py",
		Trigger:     mustTrigger(t, task.FreqDaily, "12:00", nil),
	}
	if got := registerScript(d); !strings.Contains(got, `$taskName = "The ""Big"" Job"; `) {
		t.Errorf("task name not quoted for PowerShell: %s", got)
	}
}

func TestArgvLine(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{`C:\a.py`}, `"C:\a.py"`},
		{[]string{`C:\My Dir\a.py`, "-v"}, `"C:\My Dir\a.py" "-v"`},
		{[]string{"a", `he said "hi"`}, `"a" "he said \"hi\""`},
	}
	for _, tc := range cases {
		if got := argvLine(tc.in); got != tc.want {
			t.Errorf("argvLine(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestProbeAndMutationScripts(t *testing.T) {
	if got := existsScript("My Task"); got != `$ErrorActionPreference='SilentlyContinue'; Get-ScheduledTask -TaskName "My Task" | Out-Null; if ($?) { exit 0 } else { exit 1 }` {
		t.Errorf("existsScript = %s", got)
	}
	if got := deleteScript("My Task"); got != `Unregister-ScheduledTask -TaskName "My Task" -Confirm:$false` {
		t.Errorf("deleteScript = %s", got)
	}
	if got := startScript("My Task"); got != `Start-ScheduledTask -TaskName "My Task"` {
		t.Errorf("startScript = %s", got)
	}
	if got := stopScript("My Task"); got != `Stop-ScheduledTask -TaskName "My Task" -Confirm:$false` {
		t.Errorf("stopScript = %s", got)
	}
	if got := setEnabledScript("My Task", true); got != `Enable-ScheduledTask -TaskName "My Task"` {
		t.Errorf("enable script = %s", got)
	}
	if got := setEnabledScript("My Task", false); got != `Disable-ScheduledTask -TaskName "My Task"` {
		t.Errorf("disable script = %s", got)
	}
}

func TestListScriptShape(t *testing.T) {
	for _, want := range []string{
		"Get-ScheduledTask",
		"Get-ScheduledTaskInfo",
		"Export-ScheduledTask",
		"ConvertTo-Json -Depth 8",
	} {
		if !strings.Contains(listScript, want) {
			t.Errorf("list script missing %q", want)
		}
	}
}
