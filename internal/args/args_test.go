package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/tooling/internal/task"
)

func deployMeta() task.Meta {
	return task.Meta{
		Name:        "forge:deploy",
		Positionals: "files",
		Options: []task.Option{
			{Name: "script", Type: task.String, Required: true},
			{Name: "chainId", Type: task.String},
			{Name: "broadcast", Type: task.Boolean},
			{Name: "dryRun", Type: task.Boolean},
			{Name: "sender", Type: task.String, Default: "0xdead"},
		},
	}
}

func parseFor(t *testing.T, meta task.Meta, argv ...string) *Parsed {
	t.Helper()
	p, err := Parse(argv, Normalize(meta.Options))
	require.NoError(t, err)
	return p
}

func TestNormalize(t *testing.T) {
	t.Run("Should kebab-case keys and keep the rest", func(t *testing.T) {
		in := []task.Option{
			{Name: "chainId", Type: task.String, Required: true, Description: "chain"},
			{Name: "dryRun", Type: task.Boolean},
			{Name: "already-kebab", Type: task.String},
			{Name: "plain", Type: task.String},
		}

		out := Normalize(in)

		assert.Equal(t, "chain-id", out[0].Name)
		assert.True(t, out[0].Required)
		assert.Equal(t, "chain", out[0].Description)
		assert.Equal(t, "dry-run", out[1].Name)
		assert.Equal(t, task.Boolean, out[1].Type)
		assert.Equal(t, "already-kebab", out[2].Name)
		assert.Equal(t, "plain", out[3].Name)
		assert.Equal(t, "chainId", in[0].Name, "input is not modified")
	})
}

func TestParse(t *testing.T) {
	meta := deployMeta()

	t.Run("Should collect flags and ordered positionals", func(t *testing.T) {
		p := parseFor(t, meta, "a", "--script", "Deploy.s.sol", "b", "--broadcast", "--chain-id=42161", "c")

		assert.Equal(t, []string{"a", "b", "c"}, p.Positionals)
		v, ok := p.Lookup("script")
		require.True(t, ok)
		assert.Equal(t, "Deploy.s.sol", v.Str())
		v, ok = p.Lookup("broadcast")
		require.True(t, ok)
		assert.True(t, v.Bool())
		v, ok = p.Lookup("chain-id")
		require.True(t, ok)
		assert.Equal(t, "42161", v.Str())
		_, ok = p.Lookup("dry-run")
		assert.False(t, ok, "unsupplied flags without default are absent")
	})

	t.Run("Should apply declared defaults", func(t *testing.T) {
		p := parseFor(t, meta)

		v, ok := p.Lookup("sender")
		require.True(t, ok)
		assert.Equal(t, "0xdead", v.Str())
	})

	t.Run("Should accept the network flag for every task", func(t *testing.T) {
		p := parseFor(t, task.Meta{Name: "core:info"}, "--network", "mainnet")

		v, ok := p.Lookup(NetworkFlag)
		require.True(t, ok)
		assert.Equal(t, "mainnet", v.Str())
	})

	t.Run("Should treat arguments after -- as positionals", func(t *testing.T) {
		p := parseFor(t, meta, "--", "--broadcast", "x")

		assert.Equal(t, []string{"--broadcast", "x"}, p.Positionals)
	})

	failures := map[string][]string{
		"unknown flag":            {"--nope"},
		"camelCase flag":          {"--chainId", "1"},
		"missing value":           {"--script"},
		"boolean given a value":   {"--broadcast=maybe"},
		"unknown shorthand":       {"-x"},
		"undeclared help":         {"--help"},
		"network without a value": {"--network"},
		"value that is a flag":    {"--script", "--broadcast"},
		"inline boolean value":    {"--broadcast=false"},
		"inline boolean true":     {"--dry-run=true"},
	}
	for name, argv := range failures {
		t.Run("Should fail strictly on "+name, func(t *testing.T) {
			_, err := Parse(argv, Normalize(meta.Options))

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}

	t.Run("Should accept dash-prefixed values given inline", func(t *testing.T) {
		p := parseFor(t, meta, "--script=-x", "--chain-id", "1")

		v, ok := p.Lookup("script")
		require.True(t, ok)
		assert.Equal(t, "-x", v.Str())
	})

	t.Run("Should not treat positionals after -- as flag values", func(t *testing.T) {
		p := parseFor(t, meta, "--script", "s", "--", "--chain-id", "-1")

		assert.Equal(t, []string{"--chain-id", "-1"}, p.Positionals)
	})

	t.Run("Should reject options declared twice", func(t *testing.T) {
		options := []task.Option{
			{Name: "dryRun", Type: task.Boolean},
			{Name: "dry-run", Type: task.Boolean},
		}

		_, err := Parse(nil, Normalize(options))

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, err.Error(), "dry-run")
	})

	t.Run("Should reject unsupported option types", func(t *testing.T) {
		_, err := Parse(nil, []task.Option{{Name: "count", Type: "number"}})

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
	})
}

func TestBind(t *testing.T) {
	meta := deployMeta()

	t.Run("Should bind positionals in order under the declared key", func(t *testing.T) {
		p := parseFor(t, meta, "--script", "s", "a", "b", "c")

		bag, err := Bind(meta, p)

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, bag.Strings("files"))
	})

	t.Run("Should leave positionals unbound when none were given", func(t *testing.T) {
		p := parseFor(t, meta, "--script", "s")

		bag, err := Bind(meta, p)

		require.NoError(t, err)
		assert.False(t, bag.Has("files"))
	})

	t.Run("Should bind under declared keys, not flag names", func(t *testing.T) {
		p := parseFor(t, meta, "--script", "s", "--chain-id", "10", "--dry-run")

		bag, err := Bind(meta, p)

		require.NoError(t, err)
		chain, ok := bag.String("chainId")
		require.True(t, ok)
		assert.Equal(t, "10", chain)
		assert.True(t, bag.Bool("dryRun"))
	})

	t.Run("Should bind absent booleans as false", func(t *testing.T) {
		p := parseFor(t, meta, "--script", "s")

		bag, err := Bind(meta, p)

		require.NoError(t, err)
		for _, key := range []string{"broadcast", "dryRun"} {
			v, ok := bag.Get(key)
			require.True(t, ok, key)
			assert.Equal(t, task.KindBool, v.Kind())
			assert.False(t, v.Bool())
		}
	})

	t.Run("Should fail when a required option is missing", func(t *testing.T) {
		p := parseFor(t, meta, "--broadcast")

		_, err := Bind(meta, p)

		assert.ErrorIs(t, err, ErrOptionRequired)
		assert.Contains(t, err.Error(), "script")
	})

	t.Run("Should fail when a required option is empty", func(t *testing.T) {
		p := parseFor(t, meta, "--script=")

		_, err := Bind(meta, p)

		assert.ErrorIs(t, err, ErrOptionRequired)
	})

	t.Run("Should fail on a required boolean whatever was supplied", func(t *testing.T) {
		broken := task.Meta{
			Name: "core:broken",
			Options: []task.Option{
				{Name: "force", Type: task.Boolean, Required: true},
			},
		}
		for _, argv := range [][]string{nil, {"--force"}} {
			p := parseFor(t, broken, argv...)

			_, err := Bind(broken, p)

			assert.ErrorIs(t, err, ErrRequiredBoolean)
			assert.NotErrorIs(t, err, ErrOptionRequired)
		}
	})

	t.Run("Should not forward the network flag to tasks that do not declare it", func(t *testing.T) {
		info := task.Meta{Name: "core:info"}
		p := parseFor(t, info, "--network", "mainnet")

		bag, err := Bind(info, p)

		require.NoError(t, err)
		assert.Empty(t, bag.Keys())
	})

	t.Run("Should forward the network flag to tasks that declare it", func(t *testing.T) {
		info := task.Meta{Name: "core:info", Options: []task.Option{{Name: "network", Type: task.String}}}
		p := parseFor(t, info, "--network", "mainnet")

		bag, err := Bind(info, p)

		require.NoError(t, err)
		n, ok := bag.String("network")
		require.True(t, ok)
		assert.Equal(t, "mainnet", n)
	})
}
