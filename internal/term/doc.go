// Package term provides interactive pseudo-terminal sessions.
//
// A pty is the one stdio wiring the launcher's redirect modes cannot
// express: all three standard streams of the child must share a single
// terminal device with line discipline. Sessions here launch a shell on
// a pty, buffer its output in a capped ring, and record the exit status
// when the shell ends.
//
// Operations: Create, Write, Read, Resize, Kill, List, Get.
package term
