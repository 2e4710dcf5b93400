package execute

import (
	"context"
	"io"

	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/storage"
)

// contextIterator is the stream of row contexts flowing from fetch and join into filter and
// aggregate.
type contextIterator interface {
	Next(ctx context.Context) (*BlendContext, error)
	Close() error
}

// JoinColumns are the columns of one joined relation, as known before any rows are read.
type JoinColumns struct {
	Alias   sql.Identifier
	Columns []sql.Identifier
}

func fetchColumns(ctx context.Context, store storage.Store,
	tf query.TableFactor) ([]sql.Identifier, error) {

	return store.Columns(ctx, tf.Name)
}

func fetchJoinColumns(ctx context.Context, store storage.Store,
	joins []query.Join) ([]JoinColumns, error) {

	var jcs []JoinColumns
	for _, j := range joins {
		cols, err := fetchColumns(ctx, store, j.Relation)
		if err != nil {
			return nil, err
		}
		jcs = append(jcs, JoinColumns{Alias: j.Relation.TableAlias(), Columns: cols})
	}
	return jcs, nil
}

type fetchRows struct {
	it      storage.RowIterator
	alias   sql.Identifier
	columns []sql.Identifier
	next    *BlendContext
}

// fetch returns the rows of the relation as contexts whose Next is next.
func fetch(ctx context.Context, store storage.Store, tf query.TableFactor,
	columns []sql.Identifier, next *BlendContext) (*fetchRows, error) {

	it, err := store.Rows(ctx, tf.Name)
	if err != nil {
		return nil, err
	}
	return &fetchRows{
		it:      it,
		alias:   tf.TableAlias(),
		columns: columns,
		next:    next,
	}, nil
}

func (fr *fetchRows) Next(ctx context.Context) (*BlendContext, error) {
	key, row, err := fr.it.Next(ctx)
	if err != nil {
		return nil, err
	}
	return &BlendContext{
		Alias:   fr.alias,
		Columns: fr.columns,
		Row:     row,
		Key:     key,
		Next:    fr.next,
	}, nil
}

func (fr *fetchRows) Close() error {
	return fr.it.Close()
}

// emptyRows is the single empty context a SELECT without FROM evaluates against.
type emptyRows struct {
	done bool
}

func (er *emptyRows) Next(ctx context.Context) (*BlendContext, error) {
	if er.done {
		return nil, io.EOF
	}
	er.done = true
	return &BlendContext{}, nil
}

func (er *emptyRows) Close() error {
	er.done = true
	return nil
}
