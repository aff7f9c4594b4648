package scheduler

import (
	"fmt"
	"strings"

	"wintask/internal/powershell"
	"wintask/internal/task"
)

// argvLine renders parts as one Windows command line, double-quoting every
// part so paths with spaces survive.
func argvLine(parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + strings.ReplaceAll(p, `"`, `\"`) + `"`
	}
	return strings.Join(quoted, " ")
}

// actionCommand builds the New-ScheduledTaskAction expression. The
// interpreter is the executable; the script path and its arguments travel
// as one argv string inside -Argument, single-quoted so the inner double
// quotes reach the task definition intact.
func actionCommand(d task.Descriptor) string {
	argv := argvLine(append([]string{d.Script}, d.Args...))
	return fmt.Sprintf("New-ScheduledTaskAction -Execute %s -Argument %s",
		powershell.Quote(d.Interpreter), powershell.SingleQuote(argv))
}

// registerScript composes the full Register-ScheduledTask command for a
// descriptor. Credentials are only attached when a user is set; a user
// without a password registers an interactive-logon task.
func registerScript(d task.Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "$description = %s; ", powershell.Quote(d.EffectiveDescription()))
	fmt.Fprintf(&b, "$taskName = %s; ", powershell.Quote(d.Name))
	fmt.Fprintf(&b, "$action = %s; ", actionCommand(d))
	fmt.Fprintf(&b, "$trigger = %s; ", d.Trigger.Command())
	b.WriteString("Register-ScheduledTask -TaskName $taskName -Description $description -Action $action -Trigger $trigger")
	if d.User != "" {
		fmt.Fprintf(&b, " -User %s", powershell.Quote(d.User))
		if d.Password != "" {
			fmt.Fprintf(&b, " -Password %s", powershell.Quote(d.Password))
		}
	}
	b.WriteString(" | Out-Null")
	return b.String()
}

// existsScript probes for a task by name. Exit 0 means present, exit 1
// means absent; errors from the probe itself are suppressed so only the
// boolean outcome comes back.
func existsScript(name string) string {
	return fmt.Sprintf("$ErrorActionPreference='SilentlyContinue'; Get-ScheduledTask -TaskName %s | Out-Null; if ($?) { exit 0 } else { exit 1 }",
		powershell.Quote(name))
}

func deleteScript(name string) string {
	return fmt.Sprintf("Unregister-ScheduledTask -TaskName %s -Confirm:$false", powershell.Quote(name))
}

func startScript(name string) string {
	return fmt.Sprintf("Start-ScheduledTask -TaskName %s", powershell.Quote(name))
}

func stopScript(name string) string {
	return fmt.Sprintf("Stop-ScheduledTask -TaskName %s -Confirm:$false", powershell.Quote(name))
}

func setEnabledScript(name string, enabled bool) string {
	verb := "Enable-ScheduledTask"
	if !enabled {
		verb = "Disable-ScheduledTask"
	}
	return fmt.Sprintf("%s -TaskName %s", verb, powershell.Quote(name))
}

// listScript walks every registered task and emits one JSON document. Task
// info and the exported XML definition are joined per task; the author falls
// back to the principal's account name when the registration has none.
// Tasks that fail to export are skipped rather than failing the whole list.
const listScript = `
$ErrorActionPreference = 'SilentlyContinue'
$tasks = Get-ScheduledTask
$result = foreach ($t in $tasks) {
  try {
    $info = Get-ScheduledTaskInfo -TaskName $t.TaskName
    $xml = Export-ScheduledTask -TaskName $t.TaskName
    $doc = [xml]$xml
    $reg = $doc.Task.RegistrationInfo
    $author = $reg.Author
    if (-not $author -or $author -eq '') {
      try {
        $uid = $doc.Task.Principals.Principal.UserId
        if ($uid) {
          if ($uid -is [string] -and $uid.StartsWith('S-1-')) {
            $sid = New-Object System.Security.Principal.SecurityIdentifier($uid)
            $nt = $sid.Translate([System.Security.Principal.NTAccount])
            $author = $nt.Value
          } else {
            $author = [string]$uid
          }
        }
      } catch {}
    }
    $actions = @()
    foreach ($exec in $doc.Task.Actions.Exec) {
      $actions += [pscustomobject]@{
        Command = $exec.Command
        Arguments = $exec.Arguments
        WorkingDirectory = $exec.WorkingDirectory
      }
    }
    $trigs = @()
    foreach ($node in $doc.Task.Triggers.ChildNodes) {
      $type = $node.Name
      $start = $node.StartBoundary
      $tstr = (Get-Date $start).ToString('dd/MM/yyyy HH:mm:ss')
      $timeOnly = (Get-Date $start).ToString('HH:mm')
      $daysNode = $node.DaysOfWeek
      $daysText = $null
      if ($daysNode) { $daysText = ($daysNode.ChildNodes | ForEach-Object { $_.Name }) -join ', ' }
      if ($type -eq 'TimeTrigger') { $summary = "At $tstr (one time)" }
      elseif ($type -eq 'DailyTrigger') { $summary = "At $timeOnly every day" }
      elseif ($type -eq 'WeeklyTrigger') {
        if ($daysText) { $summary = "At $timeOnly on $daysText" } else { $summary = "At $timeOnly weekly" }
      }
      else { $summary = "$type at $tstr" }
      $trigs += $summary
    }
    $nextStr = if ($info.NextRunTime -and $info.NextRunTime -ne [datetime]::MinValue) { $info.NextRunTime.ToString('dd/MM/yyyy HH:mm:ss') } else { '' }
    $lastStr = if ($info.LastRunTime -and $info.LastRunTime -ne [datetime]::MinValue) { $info.LastRunTime.ToString('dd/MM/yyyy HH:mm:ss') } else { '' }
    [pscustomobject]@{
      Name = $t.TaskName
      Status = $t.State
      NextRunTime = $nextStr
      LastRunTime = $lastStr
      LastRunResult = $info.LastTaskResult
      Author = $author
      Created = $reg.Date
      Description = $reg.Description
      Triggers = ($trigs -join '; ')
      Actions = $actions
    }
  } catch {
    continue
  }
}
$result | ConvertTo-Json -Depth 8
`
