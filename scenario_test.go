package sol

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	suitelib "github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/hilkojj/sol2/pkg/catalog"
	"github.com/hilkojj/sol2/pkg/container"
)

// scenarioFile is the document layout of testdata/scenarios/*.yaml.
type scenarioFile struct {
	TestCases []scenario `yaml:"test_cases"`
}

type scenario struct {
	Name       string              `yaml:"name"`
	Containers []scenarioContainer `yaml:"containers"`
	Steps      []scenarioStep      `yaml:"steps"`
	Expect     scenarioExpect      `yaml:"expect"`
}

type scenarioContainer struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"`
	catalog.Seed `yaml:",inline"`
}

// scenarioStep runs Script; when Error is set the chunk must fail with a
// message containing it.
type scenarioStep struct {
	Script string `yaml:"script"`
	Error  string `yaml:"error"`
}

type scenarioExpect struct {
	Globals  map[string]any           `yaml:"globals"`
	Contents map[string]expectedItems `yaml:"contents"`
	Output   string                   `yaml:"output"`
}

type expectedItems struct {
	Keys   []int `yaml:"keys"`
	Values []int `yaml:"values"`
}

// ScenarioSuite runs declarative container scenarios, one fresh State per
// case.
type ScenarioSuite struct {
	suitelib.Suite
	state  *State
	out    strings.Builder
	seeded map[string]any
}

func (suite *ScenarioSuite) SetupSubTest() {
	suite.out.Reset()
	cfg := DefaultConfig()
	cfg.Stdout = &suite.out
	cfg.LogOutput = io.Discard
	cfg.ChunkName = "scenario"
	suite.state = New(cfg)
	suite.seeded = make(map[string]any)
}

func (suite *ScenarioSuite) TearDownSubTest() {
	suite.state.Close()
}

// RunScenariosFromFile loads path and runs each of its cases as a subtest.
func (suite *ScenarioSuite) RunScenariosFromFile(path string) {
	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	var file scenarioFile
	suite.Require().NoError(yaml.Unmarshal(data, &file), "parse %s", path)
	suite.Require().NotEmpty(file.TestCases, "%s has no test cases", path)

	for _, tc := range file.TestCases {
		suite.Run(tc.Name, func() {
			suite.runScenario(tc)
		})
	}
}

func (suite *ScenarioSuite) runScenario(tc scenario) {
	for _, c := range tc.Containers {
		v, err := catalog.Build(c.Kind, c.Seed)
		suite.Require().NoError(err, "container %s", c.Name)
		suite.Require().NoError(suite.state.Set(c.Name, v))
		suite.seeded[c.Name] = v
	}

	for i, step := range tc.Steps {
		r := suite.state.Script(step.Script)
		if step.Error == "" {
			suite.Require().Truef(r.Valid(), "step %d: %v", i+1, r.Err())
			continue
		}
		suite.Require().Falsef(r.Valid(), "step %d should fail with %q", i+1, step.Error)
		suite.Contains(r.Err().Error(), step.Error, "step %d", i+1)
	}

	for name, want := range tc.Expect.Globals {
		suite.Equal(want, suite.state.Get(name), "global %s", name)
	}
	for name, want := range tc.Expect.Contents {
		v, ok := suite.seeded[name]
		suite.Require().Truef(ok, "%s is not a seeded container", name)
		suite.checkContents(name, v, want)
	}
	if tc.Expect.Output != "" {
		suite.Equal(tc.Expect.Output, suite.out.String())
	}
}

// checkContents compares the host container as seen through a registry of
// its own, so it reflects what the host observes.
func (suite *ScenarioSuite) checkContents(name string, v any, want expectedItems) {
	h, err := container.NewRegistry().Adapt(v)
	suite.Require().NoError(err)
	keys, values := container.Collect(h.Iterate())

	if want.Values != nil {
		if diff := cmp.Diff(asAny(want.Values), values, cmpopts.EquateEmpty()); diff != "" {
			suite.Failf("values mismatch", "%s (-want +got):\n%s", name, diff)
		}
	}
	if want.Keys != nil {
		if diff := cmp.Diff(asAny(want.Keys), keys, cmpopts.EquateEmpty()); diff != "" {
			suite.Failf("keys mismatch", "%s (-want +got):\n%s", name, diff)
		}
	}
}

func asAny(xs []int) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func (suite *ScenarioSuite) TestSequences() {
	suite.RunScenariosFromFile(filepath.Join("testdata", "scenarios", "sequences.yaml"))
}

func (suite *ScenarioSuite) TestAssociative() {
	suite.RunScenariosFromFile(filepath.Join("testdata", "scenarios", "associative.yaml"))
}

func (suite *ScenarioSuite) TestErrors() {
	suite.RunScenariosFromFile(filepath.Join("testdata", "scenarios", "errors.yaml"))
}

func TestScenarioSuite(t *testing.T) {
	suitelib.Run(t, new(ScenarioSuite))
}
