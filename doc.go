// Package worklog provisions the weekly worklog pages of a Confluence space.
//
// # Folder layout
//
// Pages live two folders below a configured root folder:
//
//	<root>/2025_워크로그/2025_06/06_12_워크로그
//
// A run resolves this year's and this month's folders, creating whichever is
// missing. From the 28th on it also prepares the next month's folders (and, in
// December, next year's), so the first run of a new month finds them in place.
//
// # Pages
//
// On Tuesday, Wednesday and Thursday a run creates the page for the Thursday of
// the current week. The body is the configured template with its placeholder
// date replaced by that Thursday's date. A page that already exists is left
// alone, which makes repeated runs on the same day harmless.
//
// Use [NewPlan] to see what a given day calls for without talking to Confluence,
// and [Runner.Run] to carry it out.
//
// # Errors
//
// Nothing is retried. [Classify] tells configuration problems apart from API and
// transport failures, and [ExitCode] turns that into a process status.
package worklog
