package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"stayledger/infras/otel"
	"stayledger/infras/postgres"
	"stayledger/shared/constant"
	"stayledger/shared/dto"
	"stayledger/shared/logger"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrRequiredFilter = errors.New("required filter")

// Lock is the row lock appended to a single-row read inside a transaction.
type Lock string

const (
	LockNone   Lock = ""
	LockShare  Lock = "FOR SHARE"
	LockUpdate Lock = "FOR UPDATE"
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) selectExpr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return fmt.Sprintf("%s.%s", c.table, c.name)
	}
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository carries the generic CRUD of one table. Columns are read from the `db`,
// `table` and `column` tags of T; a GetJoinQuery method on T adds a JOIN clause.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := constant.Empty
	if joiner, ok := any(zero).(interface{ GetJoinQuery() string }); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

// traced opens a repository scope, records the query and wraps any error with the entity name.
func (repo *Repository[T]) traced(ctx context.Context, op, query string, fn func(ctx context.Context) error) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := fn(ctx); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s (%s): %w", op, repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, 0, len(repo.InsertColumns))
	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, op string, model T) error {
	query := repo.insertQuery()

	return repo.traced(ctx, op, query, func(ctx context.Context) error {
		_, err := exec.NamedExecContext(ctx, query, model)

		return err //nolint:wrapcheck
	})
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, "insert", model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, "insertTx", model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == constant.Empty {
		return false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s %s)", repo.table, repo.join, where)
	exist := false

	err := repo.traced(ctx, "exist", query, func(ctx context.Context) error {
		return namedGet(ctx, repo.db.Read, query, &exist, args)
	})

	return exist, err
}

// Get returns the zero T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, "get", filter, LockNone, columns)
}

// GetTx reads one row inside tx, optionally locking it. The zero T is returned when no row matches.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, lock Lock) (T, error) {
	return repo.get(ctx, sqltx, "getTx", filter, lock, nil)
}

func (repo *Repository[T]) get(ctx context.Context, db preparer, op string, filter dto.FilterGroup, lock Lock, columns []string) (T, error) {
	var model T

	where, args := repo.BuildWhereClause(filter)
	if lock != LockNone && where == constant.Empty {
		return model, ErrRequiredFilter
	}

	query := strings.TrimSpace(fmt.Sprintf("SELECT %s FROM %s %s %s %s", repo.selectColumns(columns), repo.table, repo.join, where, lock))

	err := repo.traced(ctx, op, query, func(ctx context.Context) error {
		err := namedGet(ctx, db, query, &model, args)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		return err
	})

	return model, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := repo.BuildWhereClause(filter)

	var pagination string

	switch {
	case params.Page > 0 && params.Limit > 0:
		args["limit"] = params.Limit
		args["offset"] = params.Offset()
		pagination = "LIMIT :limit OFFSET :offset"
	case params.Limit > 0:
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", repo.selectColumns(columns), repo.table, repo.join, where, repo.ordering(params), pagination)

	var models []T

	err := repo.traced(ctx, "getAll", query, func(ctx context.Context) error {
		stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
		if err != nil {
			return err //nolint:wrapcheck
		}
		defer stmt.Close()

		return stmt.SelectContext(ctx, &models, args) //nolint:wrapcheck
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	var count int

	err := repo.traced(ctx, "count", query, func(ctx context.Context) error {
		return namedGet(ctx, repo.db.Read, query, &count, args)
	})

	return count, err
}

func (repo *Repository[T]) update(ctx context.Context, exec execer, op string, mod map[string]any, filter dto.FilterGroup) error {
	where, args := repo.BuildWhereClause(filter)
	if where == constant.Empty {
		return ErrRequiredFilter
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	maps.Copy(args, mod)

	return repo.traced(ctx, op, query, func(ctx context.Context) error {
		_, err := exec.NamedExecContext(ctx, query, args)

		return err //nolint:wrapcheck
	})
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, "update", mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, "updateTx", mod, filter)
}

func (repo *Repository[T]) selectColumns(only []string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

// ordering only accepts columns of T, so sort_by from a query string never reaches the SQL verbatim.
func (repo *Repository[T]) ordering(params dto.QueryParams) string {
	if params.SortBy == constant.Empty {
		return constant.Empty
	}

	idx := slices.IndexFunc(repo.columns, func(c column) bool {
		return c.name == params.SortBy || (c.alias != "" && c.alias == params.SortBy)
	})
	if idx < 0 {
		return constant.Empty
	}

	dir := strings.ToUpper(params.SortDir)
	if dir != dto.SortDirDesc {
		dir = dto.SortDirAsc
	}

	col := repo.columns[idx]
	if col.table == "" {
		return fmt.Sprintf("ORDER BY %s %s", col.name, dir)
	}

	return fmt.Sprintf("ORDER BY %s.%s %s", col.table, col.name, dir)
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()

	if where == constant.Empty {
		return where, map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

func namedGet(ctx context.Context, db preparer, query string, dest any, args map[string]any) error {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(table, field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		tableField := field.Tag.Get("table")
		if tableField == "" {
			tableField = table
		}

		if tableField == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if colTag := field.Tag.Get("column"); colTag != "" {
			columns = append(columns, column{name: colTag, table: tableField, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: tableField})
		}
	}

	return columns, insertColumns
}
