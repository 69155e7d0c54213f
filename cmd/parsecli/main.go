/*
Parsecli is a thin, non-core demonstration REPL for the SQL subset parser
(§1's "CLI drivers are an out-of-scope external collaborator"). It contains
no parsing logic of its own: it reads one statement at a time, hands it to
sqlgrammar.DefaultParser, and prints the resulting CST.

Usage:

	parsecli [flags]

The flags are:

	-s, --sql STATEMENT
		Parse the given statement immediately, print its tree, and exit
		instead of starting the interactive loop.

	-d, --direct
		Force reading directly from stdin instead of using GNU readline
		based routines, even if launched in a tty.

	-t, --dump-table
		Print the grammar's ACTION/GOTO table and exit, instead of
		parsing anything.

Once the interactive loop has started, each line is parsed independently.
Type "QUIT" or "EXIT" to leave.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/sqlitecst/parser"
	"github.com/dekarrin/sqlitecst/sqlgrammar"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the input reader.
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagSQL     = pflag.StringP("sql", "s", "", "Parse the given statement immediately and print its tree, then exit")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	dumpTable   = pflag.BoolP("dump-table", "t", false, "Print the grammar's ACTION/GOTO table and exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *dumpTable {
		fmt.Println(sqlgrammar.DumpTable(sqlgrammar.Table))
		return
	}

	p := sqlgrammar.DefaultParser()

	if *flagSQL != "" {
		printTree(p, *flagSQL)
		return
	}

	reader, closeFn, err := newLineReader(*forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer closeFn()

	runLoop(p, reader)
}

func runLoop(p *parser.Parser, reader func() (string, error)) {
	for {
		line, err := reader()
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}

		trimmed := strings.TrimSpace(line)
		switch strings.ToUpper(trimmed) {
		case "":
			continue
		case "QUIT", "EXIT":
			return
		}

		printTree(p, line)
	}
}

// newLineReader returns a reader function and a cleanup func, using GNU
// readline unless direct is set or stdin isn't a terminal (mirroring
// internal/input/input.go's DirectCommandReader/InteractiveCommandReader
// split).
func newLineReader(direct bool) (func() (string, error), func(), error) {
	if direct || !readline.IsTerminal(int(os.Stdin.Fd())) {
		br := bufio.NewReader(os.Stdin)
		readLine := func() (string, error) { return br.ReadString('\n') }
		return readLine, func() {}, nil
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "sql> "})
	if err != nil {
		return nil, nil, fmt.Errorf("create readline config: %w", err)
	}
	return rl.Readline, func() { rl.Close() }, nil
}

func printTree(p *parser.Parser, source string) {
	tree, err := p.Parse(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return
	}
	fmt.Printf("# session %s\n", tree.SessionID)
	dumpNode(tree.Root(), 0)
}

func dumpNode(n parser.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	label := sqlgrammar.Registry.Kind(n.Kind()).String()
	if val, ok := n.Value(); ok && val != "" {
		label = fmt.Sprintf("%s %q", label, val)
	}
	fmt.Printf("%s%s [%d,%d)\n", indent, label, n.OffsetStart(), n.OffsetEnd())

	for _, child := range n.Children() {
		dumpNode(child, depth+1)
	}
}
