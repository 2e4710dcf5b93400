package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/woojinnn/gluesql/parser"
	"github.com/woojinnn/gluesql/storage"
)

const (
	gluesqlHistory = ".gluesql_history"
)

type lineReader struct {
	line   *liner.State
	r      *strings.Reader
	prompt string
}

func (lr *lineReader) ReadRune() (r rune, size int, err error) {
	for {
		if lr.r == nil {
			s, err := lr.line.Prompt(lr.prompt)
			if err == liner.ErrPromptAborted {
				// ^C ends the statement being typed.
				return ';', 1, nil
			} else if err != nil {
				return 0, 0, err
			}
			lr.line.AppendHistory(s)
			lr.r = strings.NewReader(s + "\n")
		}

		r, sz, err := lr.r.ReadRune()
		if err == io.EOF {
			lr.r = nil
		} else if err != nil {
			return 0, 0, err
		} else {
			return r, sz, nil
		}
	}
}

// Interact runs an interactive console session against st until end of input.
func Interact(ctx context.Context, st storage.Store) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	if f, err := os.Open(gluesqlHistory); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	ReplSQL(ctx, st, parser.NewParser(&lineReader{line: line, prompt: "gluesql> "}, "console"),
		"console", os.Stdout)

	if f, err := os.Create(gluesqlHistory); err != nil {
		fmt.Fprintf(os.Stderr, "gluesql: error writing history file, %s: %s\n", gluesqlHistory,
			err)
	} else {
		line.WriteHistory(f)
		f.Close()
	}
}
