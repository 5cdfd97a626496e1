package dbrepo

import (
	"context"
	"strings"
	"sync"
)

/*
CRUD wrapper of one table in one domain. Resolves its query node through the
process-wide registry on every call, so it keeps working across `Init`.
Instances are cheap; `TableOf` caches them anyway.
*/
type Table struct {
	Name   string
	Domain string
}

var tableCache sync.Map

/*
Returns the cached table instance for the name and domain. The name is
trimmed. An empty name returns nil.
*/
func TableOf(name, domain string) *Table {
	name = strings.TrimSpace(name)
	if name == `` {
		return nil
	}
	domain = domainOr(domain)

	key := domain + "\x00" + name
	val, ok := tableCache.Load(key)
	if ok {
		return val.(*Table)
	}
	val, _ = tableCache.LoadOrStore(key, &Table{Name: name, Domain: domain})
	return val.(*Table)
}

func (self *Table) node() (*Query, error) { return Node(self.Domain) }

// `Query.Select` over this table. `find.Table` is overridden.
func (self *Table) GetAll(ctx context.Context, find Find) (Page, error) {
	node, err := self.node()
	if err != nil {
		return Page{}, err
	}
	find.Table = self.Name
	return node.Select(ctx, find)
}

// `Query.SelectRow` over this table. `find.Table` is overridden.
func (self *Table) GetOne(ctx context.Context, find Find) (Record, error) {
	node, err := self.node()
	if err != nil {
		return nil, err
	}
	find.Table = self.Name
	return node.SelectRow(ctx, find)
}

// See `Query.Count`.
func (self *Table) Count(ctx context.Context, cond Cond, fields Fields, distinct bool) (int64, error) {
	node, err := self.node()
	if err != nil {
		return 0, err
	}
	return node.Count(ctx, self.Name, cond, fields, distinct)
}

// See `Query.Insert`.
func (self *Table) Insert(ctx context.Context, row NamedArgs, pkval bool) (int64, error) {
	node, err := self.node()
	if err != nil {
		return 0, err
	}
	return node.Insert(ctx, self.Name, row, pkval)
}

// See `Query.Update`.
func (self *Table) Update(ctx context.Context, row NamedArgs, cond Cond) (int64, error) {
	node, err := self.node()
	if err != nil {
		return 0, err
	}
	return node.Update(ctx, self.Name, row, cond)
}

// See `Query.Del`.
func (self *Table) Del(ctx context.Context, cond Cond) (int64, error) {
	node, err := self.node()
	if err != nil {
		return 0, err
	}
	return node.Del(ctx, self.Name, cond)
}

// See `Query.IncrField`.
func (self *Table) IncrField(ctx context.Context, field string, delta int64, cond Cond) (int64, error) {
	node, err := self.node()
	if err != nil {
		return 0, err
	}
	return node.IncrField(ctx, self.Name, field, delta, cond)
}

// See `Query.DecrField`.
func (self *Table) DecrField(ctx context.Context, field string, delta int64, cond Cond) (int64, error) {
	node, err := self.node()
	if err != nil {
		return 0, err
	}
	return node.DecrField(ctx, self.Name, field, delta, cond)
}
