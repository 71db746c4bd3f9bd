// Package xpgx is a thin wrapper over pgxpool that executes squirrel
// builders and scans rows into structs by their db tags.
package xpgx

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Pool interface {
	Execx(ctx context.Context, q squirrel.Sqlizer) (pgconn.CommandTag, error)
	Getx(ctx context.Context, dest interface{}, q squirrel.Sqlizer) error
	Selectx(ctx context.Context, dest interface{}, q squirrel.Sqlizer) error
	Close()
}

type pool struct {
	p *pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (Pool, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err = p.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}
	return &pool{p: p}, nil
}

func (w *pool) Close() { w.p.Close() }

func (w *pool) Execx(ctx context.Context, q squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("q.ToSql: %w", err)
	}
	return w.p.Exec(ctx, sql, args...)
}

func (w *pool) Getx(ctx context.Context, dest interface{}, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("q.ToSql: %w", err)
	}

	rows, err := w.p.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return err
		}
		return pgx.ErrNoRows
	}

	if err = scanStruct(rows, dest); err != nil {
		return err
	}
	return rows.Err()
}

func (w *pool) Selectx(ctx context.Context, dest interface{}, q squirrel.Sqlizer) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("q.ToSql: %w", err)
	}

	slicePtr := reflect.ValueOf(dest)
	if slicePtr.Kind() != reflect.Ptr || slicePtr.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to a slice, got %T", dest)
	}
	sliceVal := slicePtr.Elem()
	elemType := sliceVal.Type().Elem()

	rows, err := w.p.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var elem reflect.Value
		if elemType.Kind() == reflect.Ptr {
			elem = reflect.New(elemType.Elem())
			if err = scanStruct(rows, elem.Interface()); err != nil {
				return err
			}
			sliceVal.Set(reflect.Append(sliceVal, elem))
		} else {
			elem = reflect.New(elemType)
			if err = scanStruct(rows, elem.Interface()); err != nil {
				return err
			}
			sliceVal.Set(reflect.Append(sliceVal, elem.Elem()))
		}
	}

	return rows.Err()
}

// scanStruct maps the current row onto dest's fields by db tag. Columns
// without a matching field are discarded rather than failing the scan.
func scanStruct(rows pgx.Rows, dest interface{}) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to a struct, got %T", dest)
	}
	v = v.Elem()

	byTag := make(map[string]reflect.Value, v.NumField())
	collectFields(v, byTag)

	fds := rows.FieldDescriptions()
	targets := make([]interface{}, len(fds))
	for i, fd := range fds {
		if f, ok := byTag[string(fd.Name)]; ok {
			targets[i] = f.Addr().Interface()
		} else {
			targets[i] = new(interface{})
		}
	}

	return rows.Scan(targets...)
}

func collectFields(v reflect.Value, byTag map[string]reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collectFields(v.Field(i), byTag)
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		byTag[tag] = v.Field(i)
	}
}
