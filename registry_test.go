package dbrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry(map[string]DomainConfig{
		``:     {Driver: `sqlite`, Dsn: testDsn(t), MaxOpenConns: 2, ConnMaxLifetime: time.Minute},
		`logs`: {Driver: `sqlite3`, Dsn: testDsn(t)},
		`bad`:  {Driver: `oracle`, Dsn: `x`},
	})
	t.Cleanup(func() { _ = reg.Shutdown() })

	require.Equal(t, []string{`bad`, DefaultDomain, `logs`}, reg.Domains())

	t.Run(`default_domain`, func(t *testing.T) {
		node, err := reg.Node(``)
		require.NoError(t, err)
		require.Equal(t, Dialect(SQLite{}), node.Dialect())

		other, err := reg.Node(DefaultDomain)
		require.NoError(t, err)
		require.Same(t, node, other)

		val, err := node.Ds.One(context.Background(), `SELECT 1`)
		require.NoError(t, err)
		require.Equal(t, int64(1), val)
	})

	t.Run(`separate_domains`, func(t *testing.T) {
		node, err := reg.Node(``)
		require.NoError(t, err)

		logs, err := reg.Node(`logs`)
		require.NoError(t, err)
		require.NotSame(t, node, logs)
	})

	t.Run(`unknown_domain`, func(t *testing.T) {
		_, err := reg.Node(`missing`)
		require.ErrorIs(t, err, ErrUnknownDomain)
		require.Contains(t, err.Error(), `"missing"`)
	})

	t.Run(`unsupported_driver`, func(t *testing.T) {
		_, err := reg.Node(`bad`)
		require.ErrorIs(t, err, ErrInvalidInput)
		require.Contains(t, err.Error(), `oracle`)
	})
}

func TestRegistry_Shutdown(t *testing.T) {
	reg := NewRegistry(map[string]DomainConfig{
		DefaultDomain: {Driver: `sqlite3`, Dsn: testDsn(t)},
	})

	node, err := reg.Node(``)
	require.NoError(t, err)

	require.NoError(t, reg.Shutdown())
	require.NoError(t, reg.Shutdown())

	_, err = reg.Node(``)
	require.ErrorIs(t, err, ErrClosed)

	_, err = node.Ds.One(context.Background(), `SELECT 1`)
	require.ErrorIs(t, err, ErrQueryFailed)
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { _ = Shutdown() })

	require.NoError(t, Init(map[string]DomainConfig{
		DefaultDomain: {Driver: `sqlite3`, Dsn: testDsn(t)},
	}))

	first, err := Node(``)
	require.NoError(t, err)

	again, err := Node(DefaultDomain)
	require.NoError(t, err)
	require.Same(t, first, again)

	require.NoError(t, Init(map[string]DomainConfig{
		DefaultDomain: {Driver: `sqlite3`, Dsn: testDsn(t)},
	}))

	second, err := Node(``)
	require.NoError(t, err)
	require.NotSame(t, first, second)

	_, err = first.Ds.One(context.Background(), `SELECT 1`)
	require.ErrorIs(t, err, ErrQueryFailed)

	require.NoError(t, Shutdown())
	_, err = Node(``)
	require.ErrorIs(t, err, ErrClosed)
}
