package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/circlepack-go/internal/config"
	"github.com/ukaji3/circlepack-go/pkg/circlepack/models"
)

type fixture struct {
	dir    string
	org    string
	people string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	fx := fixture{
		dir:    dir,
		org:    filepath.Join(dir, "org.csv"),
		people: filepath.Join(dir, "people.csv"),
		config: filepath.Join(dir, "circlepack.yaml"),
	}
	write := func(path, content string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write(fx.org, "Circle,Role,FTE\nEng,Dev,0.5\nEng,Dev,0.5\nOps,Admin,15\n")
	write(fx.people, "Circle,Role,Person,FTE\nEng,Dev,Alice,0.5\nEng,Dev,Alice,0.5\n")
	write(fx.config, "share:\n  local_db: "+filepath.Join(dir, "shares.db")+"\nlogging:\n  level: error\n")
	return fx
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "analyze", fx.org, "--people", fx.people, "--json", "--rules", "basic")
	require.NoError(t, err, out)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "org", r.Name)

	var types []models.ProblemType
	for _, p := range r.Problems {
		types = append(types, p.Type)
	}
	assert.Equal(t, []models.ProblemType{
		models.ProblemCircleLowFTE,
		models.ProblemCircleHighFTE,
		models.ProblemCircleSingleRole,
	}, types)
	assert.Equal(t, 3, r.Summary.Total)
}

func TestAnalyzeText(t *testing.T) {
	fx := newFixture(t)
	outPath := filepath.Join(fx.dir, "report.txt")

	_, err := execute(t, "--config", fx.config, "analyze", fx.org, "-p", fx.people, "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "circle-high-fte Ops")
}

func TestTreeJSON(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "tree", fx.org, "--json")
	require.NoError(t, err, out)

	var root models.HierarchyNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "Organization", root.Name)
	assert.Nil(t, root.Value)
	require.Len(t, root.Children, 2)
	assert.Len(t, root.Children[0].Children, 2)
}

func TestShareAndOpen(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "share", fx.org, "--people", fx.people, "--name", "plan")
	require.NoError(t, err, out)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = execute(t, "--config", fx.config, "open", id, "--json")
	require.NoError(t, err, out)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "plan", r.Name)

	_, err = execute(t, "--config", fx.config, "open", "unknown-id")
	assert.ErrorContains(t, err, "not found")
}

func TestShareDelete(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "share", fx.org, "--people", fx.people)
	require.NoError(t, err, out)
	id := strings.TrimSpace(out)

	out, err = execute(t, "--config", fx.config, "delete", id)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted "+id)

	_, err = execute(t, "--config", fx.config, "open", id)
	assert.ErrorContains(t, err, "not found")
}

func TestInitWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "circlepack.yaml")

	out, err := execute(t, "--config", path, "init")
	require.NoError(t, err, out)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().RuleSet, cfg.RuleSet)
	assert.Equal(t, config.DefaultConfig().Share.Timeout, cfg.Share.Timeout)

	_, err = execute(t, "--config", path, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "--config", path, "init", "--force")
	assert.NoError(t, err)
}

func TestTreeMarksUnstaffedRoles(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "tree", fx.org, "--people", fx.people)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Admin (15 FTE) unstaffed")
	assert.NotContains(t, out, "Dev (0.5 FTE) unstaffed")
}

func TestShareToken(t *testing.T) {
	fx := newFixture(t)

	out, err := execute(t, "--config", fx.config, "share", fx.org, "--people", fx.people, "--token")
	require.NoError(t, err, out)
	token := strings.TrimPrefix(strings.TrimSpace(out), "data=")

	out, err = execute(t, "--config", fx.config, "open", token, "--token", "--tree")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ops (15 FTE)")

	_, err = execute(t, "--config", fx.config, "open", "bm90LWEtdG9rZW4=", "--token")
	assert.ErrorContains(t, err, "corrupted or invalid link")
}

func TestAnalyzeNoData(t *testing.T) {
	fx := newFixture(t)
	empty := filepath.Join(fx.dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("Circle,Role,FTE\n"), 0644))

	_, err := execute(t, "--config", fx.config, "analyze", empty)
	assert.ErrorContains(t, err, "no valid organizational data")
}
