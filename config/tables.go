package config

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/hashicorp/hcl"
	log "github.com/sirupsen/logrus"

	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

// Table is a table read from a data file:
//
//	table "t1" {
//	    columns = ["id", "v"]
//	    rows = [[1, 5], [2, "six"]]
//	}
type Table struct {
	Name    string
	Columns []string
	Rows    []sql.Row
}

type tableBlock struct {
	Name    string          `hcl:",key"`
	Columns []string        `hcl:"columns"`
	Rows    [][]interface{} `hcl:"rows"`
}

type dataFile struct {
	Tables []tableBlock `hcl:"table"`
}

func LoadTables(path string) ([]Table, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tables, err := DecodeTables(string(b))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %s", path, err)
	}
	return tables, nil
}

func toValue(v interface{}) (sql.Value, error) {
	switch v := v.(type) {
	case bool:
		return sql.BoolValue(v), nil
	case int:
		return sql.Int64Value(v), nil
	case int64:
		return sql.Int64Value(v), nil
	case float64:
		return sql.Float64Value(v), nil
	case string:
		return sql.StringValue(v), nil
	}
	return nil, fmt.Errorf("unexpected value: %v", v)
}

// DecodeTables decodes the tables of a data file. A data file has no way to spell NULL.
func DecodeTables(s string) ([]Table, error) {
	var df dataFile
	err := hcl.Decode(&df, s)
	if err != nil {
		return nil, err
	}

	var tables []Table
	for _, tb := range df.Tables {
		if tb.Name == "" {
			return nil, fmt.Errorf("table: missing name")
		}
		if len(tb.Columns) == 0 {
			return nil, fmt.Errorf("table %s: missing columns", tb.Name)
		}

		tbl := Table{
			Name:    tb.Name,
			Columns: tb.Columns,
		}
		for rdx, r := range tb.Rows {
			if len(r) != len(tb.Columns) {
				return nil, fmt.Errorf("table %s: row %d: got %d values want %d", tb.Name,
					rdx+1, len(r), len(tb.Columns))
			}
			row := make(sql.Row, 0, len(r))
			for _, v := range r {
				val, err := toValue(v)
				if err != nil {
					return nil, fmt.Errorf("table %s: row %d: %s", tb.Name, rdx+1, err)
				}
				row = append(row, val)
			}
			tbl.Rows = append(tbl.Rows, row)
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

// Load creates the table in ld and inserts its rows.
func (tbl Table) Load(ctx context.Context, ld storage.Loader) error {
	cols := make([]sql.Identifier, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		cols = append(cols, sql.ID(col))
	}
	tn := sql.ID(tbl.Name)
	err := ld.CreateTable(ctx, tn, cols)
	if err != nil {
		return err
	}
	for _, row := range tbl.Rows {
		err = ld.Insert(ctx, tn, row)
		if err != nil {
			return err
		}
	}

	log.WithFields(log.Fields{
		"table": tbl.Name,
		"rows":  len(tbl.Rows),
	}).Info("config: table loaded")
	return nil
}
