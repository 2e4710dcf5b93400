package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woojinnn/gluesql/parser"
	"github.com/woojinnn/gluesql/repl"
)

var (
	shellCmd = &cobra.Command{
		Use:   "shell [sql-file ...]",
		Short: "Run an interactive console session or a list of sql files",
		RunE:  shellRun,
	}

	queryCmd = &cobra.Command{
		Use:   "query [sql ...]",
		Short: "Run each argument as sql; read standard input when there are none",
		RunE:  queryRun,
	}
)

func init() {
	gluesqlCmd.AddCommand(shellCmd)
	gluesqlCmd.AddCommand(queryCmd)
}

func shellRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(args) == 0 {
		repl.Interact(ctx, st)
		return nil
	}

	for _, arg := range args {
		f, err := os.Open(arg)
		if err != nil {
			return fmt.Errorf("gluesql: sql file: %s", err)
		}
		repl.ReplSQL(ctx, st, parser.NewParser(bufio.NewReader(f), arg), arg, os.Stdout)
		f.Close()
	}
	return nil
}

func queryRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(args) == 0 {
		repl.ReplSQL(ctx, st, parser.NewParser(bufio.NewReader(os.Stdin), "[stdin]"), "stdin",
			os.Stdout)
		return nil
	}

	for idx, arg := range args {
		src := "sql-arg:" + strconv.Itoa(idx)
		repl.ReplSQL(ctx, st, parser.NewParser(strings.NewReader(arg), src), src, os.Stdout)
	}
	return nil
}
