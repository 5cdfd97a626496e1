package dbrepo

import (
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"
)

/*
Connection settings of one database domain. A domain is a logical name such as
"default" or "analytics" under which application code looks up a query node.
*/
type DomainConfig struct {
	Driver          string        `koanf:"driver"            json:"driver"`
	Dsn             string        `koanf:"dsn"               json:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"    json:"maxOpenConns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" json:"connMaxLifetime"`
}

/*
Query nodes keyed by domain. Nodes are opened lazily on first use and cached
until `Shutdown`. The empty domain means `DefaultDomain`.

Most programs use the process-wide instance via `Init`, `Node` and `Shutdown`.
Tests and programs with several independent configurations can create their
own via `NewRegistry`.
*/
type Registry struct {
	mu      sync.Mutex
	configs map[string]DomainConfig
	nodes   map[string]*Query
	dbs     []*sql.DB
	closed  bool
}

// Creates a registry over the given domains. Domain names are case-sensitive.
func NewRegistry(configs map[string]DomainConfig) *Registry {
	out := &Registry{
		configs: make(map[string]DomainConfig, len(configs)),
		nodes:   map[string]*Query{},
	}
	for key, val := range configs {
		out.configs[domainOr(key)] = val
	}
	return out
}

/*
Returns the cached node of the domain, opening it on first use. Unknown domains
return `ErrUnknownDomain`. After `Shutdown`, returns `ErrClosed`.
*/
func (self *Registry) Node(domain string) (*Query, error) {
	domain = domainOr(domain)

	self.mu.Lock()
	defer self.mu.Unlock()

	if self.closed {
		return nil, ErrClosed.while(`getting node for domain ` + domain)
	}

	node := self.nodes[domain]
	if node != nil {
		return node, nil
	}

	conf, ok := self.configs[domain]
	if !ok {
		return nil, ErrUnknownDomain.while(`getting node`).because(errf(`domain %q is not configured`, domain))
	}

	db, err := openDomain(domain, conf)
	if err != nil {
		return nil, err
	}

	node = NewQuery(NewDataSource(db, DialectFor(DriverName(conf.Driver))))
	self.nodes[domain] = node
	self.dbs = append(self.dbs, db)
	return node, nil
}

// Configured domain names, sorted.
func (self *Registry) Domains() []string {
	self.mu.Lock()
	defer self.mu.Unlock()

	out := make([]string, 0, len(self.configs))
	for key := range self.configs {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

/*
Closes every opened connection pool. Subsequent calls of `Node` return
`ErrClosed`. Calling it again is a no-op.
*/
func (self *Registry) Shutdown() error {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.closed {
		return nil
	}
	self.closed = true

	var errs []error
	for _, db := range self.dbs {
		errs = append(errs, db.Close())
	}
	self.dbs = nil
	self.nodes = nil
	return errors.Join(errs...)
}

func openDomain(domain string, conf DomainConfig) (*sql.DB, error) {
	driver := DriverName(conf.Driver)
	if driver == `` {
		return nil, ErrInvalidInput.while(`opening domain ` + domain).
			because(errf(`unsupported driver %q`, conf.Driver))
	}

	db, err := sql.Open(driver, conf.Dsn)
	if err != nil {
		return nil, ErrInvalidInput.while(`opening domain ` + domain).because(err)
	}

	if conf.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.MaxOpenConns)
	}
	if conf.MaxIdleConns > 0 {
		db.SetMaxIdleConns(conf.MaxIdleConns)
	}
	if conf.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(conf.ConnMaxLifetime)
	}
	return db, nil
}

var (
	globalMu  sync.Mutex
	globalReg = NewRegistry(nil)
)

/*
Configures the process-wide registry. Nodes opened under a previous
configuration are closed.
*/
func Init(configs map[string]DomainConfig) error {
	globalMu.Lock()
	prev := globalReg
	globalReg = NewRegistry(configs)
	globalMu.Unlock()
	return prev.Shutdown()
}

// Node of the domain in the process-wide registry. See `Registry.Node`.
func Node(domain string) (*Query, error) { return globalRegistry().Node(domain) }

// Closes the process-wide registry. See `Registry.Shutdown`.
func Shutdown() error { return globalRegistry().Shutdown() }

func globalRegistry() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalReg
}
