package category

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
)

// Category represents a category record. Categories are managed elsewhere; this package
// only reads them for ownership checks.
type Category struct {
	ID     int64  `db:"id"`
	UserID int64  `db:"user_id"`
	Name   string `db:"name"`
}

type ICategoryTable interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
}

var _ ICategoryTable = (*Table)(nil)

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

func (t *Table) FindByID(ctx context.Context, id int64) (*Category, error) {
	query := psql.Select(
		sm.Columns("id", "user_id", "name"),
		sm.From("categories"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[*Category]())
	if err != nil {
		return nil, sqlconfig.MapError(err)
	}
	return row, nil
}
