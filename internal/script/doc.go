// Package script parses and runs line-oriented command scripts against a
// scheduler.
//
// A script holds one command per line. Blank lines are skipped and '#'
// starts a comment that runs to the end of the line:
//
//	add build 5
//	add test 3 build      # test waits on build
//	update test 9
//	resolve               # prints "build", or "none" when nothing is ready
//	drain
//	status [glob]
//	stalled [glob]
//
// Parse errors are reported as *errors.ScriptError carrying the file name
// and line number, and abort the run before any command executes.
package script
