// Command procpipe launches a child process with configurable stdio
// redirection, optionally piping its output into a second command.
//
//	procpipe -stdout pipe -stderr merge ls /bin
//	procpipe -into "wc -l" ls /bin
//	procpipe -stdin path=input.txt -stdout path=out.txt sort
package main
