// The bunf command compiles a small typed imperative language into
// Brainfuck, using the package github.com/KittydaCat/BunF/bfasm shadow
// machine to generate runtime-agnostic tape code from a compile-time
// exploration of the program.
//
// Usage:
//
//	-charin string
//		  characters fed to successive input_char() calls, in order
//	-debug
//		  enable the compiler's per-operation debug logging
//	-dump-shadow
//		  pretty-print the shadow machine's final cell contents
//	-o filename
//		  write the compiled tape program to filename instead of stdout
//	-run
//		  run the compiled program on the tape interpreter after compiling
//	-stats
//		  print instruction count and cell usage upon exit
//	-strin value
//		  string fed to an input_str() call (can be specified multiple times)
//
// -charin, -strin: input_str() and input_char() take no arguments in the
// source language; the value actually read at runtime comes from these
// fixture flags instead, consumed in the order each call appears in the
// source, since the shadow machine needs every value concrete up front.
//
// -run: without this flag, bunf only compiles and prints (or writes, with
// -o) the emitted tape program. With it, the program is executed on the
// tape interpreter and its output printed to stdout; the program text is
// then not printed, and is written only if -o is given.
//
// -debug: enables bfasm's debug mode, which logs (at glog -v=1) each
// operation as it is compiled, and prints a fatal error with its full %+v
// detail. The emitted code is not re-run or checked against the shadow.
package main
