package transaction

import (
	"context"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/finflow/finflow-server/internal/storage/sqlconfig"
)

var _ ITransactionTable = (*Table)(nil)

type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

var transactionColumns = sm.Columns(
	"t.id", "t.name", "t.description", "t.price", "t.user_id", "t.category_id",
	"c.name AS category_name", "t.transaction_type", "t.currency", "t.created_at",
)

func selectTransactions(queryMods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		transactionColumns,
		sm.From("transactions").As("t"),
		sm.InnerJoin("categories").As("c").OnEQ(psql.Quote("c", "id"), psql.Quote("t", "category_id")),
	}
	return psql.Select(append(base, queryMods...)...)
}

func createdBetween(from, until time.Time) []bob.Mod[*dialect.SelectQuery] {
	var queryMods []bob.Mod[*dialect.SelectQuery]
	if !from.IsZero() {
		queryMods = append(queryMods, sm.Where(psql.Quote("t", "created_at").GTE(psql.Arg(sqlconfig.Timestamp(from)))))
	}
	if !until.IsZero() {
		queryMods = append(queryMods, sm.Where(psql.Quote("t", "created_at").LT(psql.Arg(sqlconfig.Timestamp(until)))))
	}
	return queryMods
}

func (t *Table) findOne(ctx context.Context, queryMods ...bob.Mod[*dialect.SelectQuery]) (*Transaction, error) {
	row, err := bob.One(ctx, t.exec, selectTransactions(queryMods...), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlconfig.MapError(err)
	}
	return normalize(row), nil
}

// FindByID retrieves a transaction by primary key.
func (t *Table) FindByID(ctx context.Context, id int64) (*Transaction, error) {
	return t.findOne(ctx, sm.Where(psql.Quote("t", "id").EQ(psql.Arg(id))))
}

// FindByIDForUpdate is FindByID holding a row lock until the surrounding transaction ends.
func (t *Table) FindByIDForUpdate(ctx context.Context, id int64) (*Transaction, error) {
	return t.findOne(ctx,
		sm.Where(psql.Quote("t", "id").EQ(psql.Arg(id))),
		sm.ForUpdate("t"),
	)
}

// Insert creates a new transaction and returns its generated ID.
func (t *Table) Insert(ctx context.Context, create *TransactionCreate) (int64, error) {
	createdAt := create.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	kind := create.Kind
	if kind == "" {
		kind = KindSpending
	}

	query := psql.Insert(
		im.Into("transactions",
			"name", "description", "price", "user_id", "category_id",
			"transaction_type", "currency", "created_at"),
		im.Values(
			psql.Arg(create.Name),
			psql.Arg(create.Description),
			psql.Arg(create.Price),
			psql.Arg(create.UserID),
			psql.Arg(create.CategoryID),
			psql.Arg(string(kind)),
			psql.Arg(create.Currency),
			psql.Arg(sqlconfig.Timestamp(createdAt)),
		),
		im.Returning("id"),
	)

	id, err := bob.One(ctx, t.exec, query, scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, sqlconfig.MapError(err)
	}
	return id, nil
}

// Update applies the set fields of update. A missing row is ErrNotFound.
func (t *Table) Update(ctx context.Context, id int64, update *TransactionUpdate) error {
	if update.IsEmpty() {
		_, err := t.FindByID(ctx, id)
		return err
	}

	queryMods := []bob.Mod[*dialect.UpdateQuery]{um.Table("transactions")}

	if v, ok := update.Name.Get(); ok {
		queryMods = append(queryMods, um.SetCol("name").ToArg(v))
	}
	if !update.Description.IsUnset() {
		queryMods = append(queryMods, um.SetCol("description").ToArg(update.Description.MustPtr()))
	}
	if v, ok := update.Price.Get(); ok {
		queryMods = append(queryMods, um.SetCol("price").ToArg(v))
	}
	if v, ok := update.CategoryID.Get(); ok {
		queryMods = append(queryMods, um.SetCol("category_id").ToArg(v))
	}
	if v, ok := update.Kind.Get(); ok {
		queryMods = append(queryMods, um.SetCol("transaction_type").ToArg(string(v)))
	}
	if v, ok := update.Currency.Get(); ok {
		queryMods = append(queryMods, um.SetCol("currency").ToArg(v))
	}
	if v, ok := update.CreatedAt.Get(); ok {
		queryMods = append(queryMods, um.SetCol("created_at").ToArg(sqlconfig.Timestamp(v)))
	}

	queryMods = append(queryMods, um.Where(psql.Quote("id").EQ(psql.Arg(id))))
	result, err := bob.Exec(ctx, t.exec, psql.Update(queryMods...))
	if err != nil {
		return sqlconfig.MapError(err)
	}
	return requireAffected(result.RowsAffected())
}

// Delete removes one transaction. A missing row is ErrNotFound.
func (t *Table) Delete(ctx context.Context, id int64) error {
	query := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return sqlconfig.MapError(err)
	}
	return requireAffected(result.RowsAffected())
}

// DeleteByUser removes every transaction of a user and returns how many went.
func (t *Table) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
	)
	result, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return 0, sqlconfig.MapError(err)
	}
	return result.RowsAffected()
}

// List returns one page of a user's transactions, newest first, plus one extra row when
// more remain.
func (t *Table) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Where(psql.Quote("t", "user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.CategoryID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("t", "category_id").EQ(psql.Arg(*filter.CategoryID))))
	}
	if filter.Kind != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("t", "transaction_type").EQ(psql.Arg(string(*filter.Kind)))))
	}
	queryMods = append(queryMods, createdBetween(filter.CreatedFrom, filter.CreatedUntil)...)
	if filter.After != nil {
		queryMods = append(queryMods, sm.Where(psql.Raw("(t.created_at, t.id) < (?, ?)",
			sqlconfig.Timestamp(filter.After.CreatedAt), filter.After.ID)))
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("t", "created_at")).Desc(),
		sm.OrderBy(psql.Quote("t", "id")).Desc(),
	)
	if filter.Limit > 0 {
		queryMods = append(queryMods, sm.Limit(filter.Limit+1))
	}

	rows, err := bob.All(ctx, t.exec, selectTransactions(queryMods...), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlconfig.MapError(err)
	}
	for _, row := range rows {
		normalize(row)
	}
	return rows, nil
}

// SumByGroup sums prices per category, kind and currency in a single query.
func (t *Table) SumByGroup(ctx context.Context, filter *TotalsFilter) ([]*Group, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("c.name AS category", "t.transaction_type AS kind", "t.currency AS currency", "SUM(t.price) AS sum"),
		sm.From("transactions").As("t"),
		sm.InnerJoin("categories").As("c").OnEQ(psql.Quote("c", "id"), psql.Quote("t", "category_id")),
		sm.Where(psql.Quote("t", "user_id").EQ(psql.Arg(filter.UserID))),
	}
	queryMods = append(queryMods, createdBetween(filter.CreatedFrom, filter.CreatedUntil)...)
	queryMods = append(queryMods,
		sm.GroupBy("c.name"),
		sm.GroupBy("t.transaction_type"),
		sm.GroupBy("t.currency"),
		sm.OrderBy("c.name"),
	)

	groups, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*Group]())
	if err != nil {
		return nil, sqlconfig.MapError(err)
	}
	return groups, nil
}

// ListForTotals returns every row in range for the itemized report.
func (t *Table) ListForTotals(ctx context.Context, filter *TotalsFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Where(psql.Quote("t", "user_id").EQ(psql.Arg(filter.UserID))),
	}
	queryMods = append(queryMods, createdBetween(filter.CreatedFrom, filter.CreatedUntil)...)
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("t", "created_at")).Desc(),
		sm.OrderBy(psql.Quote("t", "id")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, selectTransactions(queryMods...), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlconfig.MapError(err)
	}
	for _, row := range rows {
		normalize(row)
	}
	return rows, nil
}

func normalize(row *Transaction) *Transaction {
	row.CreatedAt = sqlconfig.Timestamp(row.CreatedAt)
	return row
}

func requireAffected(affected int64, err error) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return sqlconfig.ErrNotFound
	}
	return nil
}
