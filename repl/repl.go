package repl

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"

	"github.com/woojinnn/gluesql/execute"
	"github.com/woojinnn/gluesql/parser"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

func runQuery(ctx context.Context, st storage.Store, q *query.Query, w io.Writer) error {
	labels, rows, err := execute.SelectWithLabels(ctx, st, q, nil, true)
	if err != nil {
		return err
	}
	defer rows.Close()

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(labels)

	out := make([]string, len(labels))
	for {
		row, err := rows.Next(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		for cdx, v := range row {
			if s, ok := v.(sql.StringValue); ok {
				out[cdx] = string(s)
				continue
			}
			out[cdx] = sql.Format(v)
		}
		tw.Append(out)
	}
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", tw.NumLines())
	return nil
}

// ReplSQL runs every query read by p against st, writing the results and any errors to w.
// An error stops only the query which caused it.
func ReplSQL(ctx context.Context, st storage.Store, p parser.Parser, src string, w io.Writer) {
	for {
		q, err := p.Parse()
		if err == io.EOF {
			return
		}
		if err == nil {
			err = runQuery(ctx, st, q, w)
		}
		if err != nil {
			log.WithField("source", src).Info(err)
			fmt.Fprintln(w, err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
