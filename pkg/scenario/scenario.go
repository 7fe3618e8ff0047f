package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vcommit/internal/errors"
)

// Scenario is a sequence of trees committed one pass at a time.
type Scenario struct {
	Name   string  `yaml:"name" json:"name"`
	Passes []*Pass `yaml:"passes" json:"passes"`
}

// Pass describes one commit pass.
type Pass struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Tree is the root of the tree committed by the pass.
	Tree *Node `yaml:"tree" json:"tree"`

	// Delete lists ids removed by this pass. Nodes missing from Tree are
	// removed anyway; listing them asserts they existed.
	Delete []string `yaml:"delete,omitempty" json:"delete,omitempty"`

	// SetState calls SetState on the named components before the pass.
	SetState map[string]map[string]any `yaml:"setState,omitempty" json:"setState,omitempty"`

	// Dispatch fires events after the pass has committed.
	Dispatch []Dispatch `yaml:"dispatch,omitempty" json:"dispatch,omitempty"`
}

// Dispatch fires an event of Type at the node with id Target.
type Dispatch struct {
	Target string `yaml:"target" json:"target"`
	Type   string `yaml:"type" json:"type"`
}

// Node describes one virtual node. Exactly one of Tag, Text, Func and
// Component is set.
type Node struct {
	// ID identifies the node across passes. Nodes without one are
	// identified by their position under their parent.
	ID string `yaml:"id,omitempty" json:"id,omitempty"`

	Tag       string  `yaml:"tag,omitempty" json:"tag,omitempty"`
	Text      *string `yaml:"text,omitempty" json:"text,omitempty"`
	Func      string  `yaml:"func,omitempty" json:"func,omitempty"`
	Component string  `yaml:"component,omitempty" json:"component,omitempty"`

	Key   string         `yaml:"key,omitempty" json:"key,omitempty"`
	Props map[string]any `yaml:"props,omitempty" json:"props,omitempty"`

	// Hooks names cleanup hooks registered when a function node mounts.
	Hooks []string `yaml:"hooks,omitempty" json:"hooks,omitempty"`

	// RootDom makes a component resolve to its first child's dom once
	// mounted.
	RootDom bool `yaml:"rootDom,omitempty" json:"rootDom,omitempty"`

	// Ref records the node's committed dom in the lifecycle log.
	Ref bool `yaml:"ref,omitempty" json:"ref,omitempty"`

	// Effect forces the node's effect tag: placement, update or none.
	Effect string `yaml:"effect,omitempty" json:"effect,omitempty"`

	Children []*Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// Load reads a scenario file. Files ending in .json are decoded as JSON,
// everything else as YAML.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E160").Wrap(err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes and validates a scenario. format is "json" or "yaml".
func Parse(data []byte, format string) (*Scenario, error) {
	sc := &Scenario{}
	var err error
	if format == "json" {
		err = json.Unmarshal(data, sc)
	} else {
		err = yaml.Unmarshal(data, sc)
	}
	if err != nil {
		return nil, errors.New("E160").
			WithDetail("Failed to parse scenario: " + err.Error())
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks node kinds and id uniqueness within each pass.
// Deletions are checked against earlier passes when the scenario runs.
func (sc *Scenario) Validate() error {
	if len(sc.Passes) == 0 {
		return errors.New("E160").WithDetail("The scenario has no passes.")
	}
	for i, p := range sc.Passes {
		if p.Tree == nil {
			return errors.New("E160").WithDetail("Pass " + p.label(i) + " has no tree.")
		}
		seen := make(map[string]bool)
		if err := validateNode(p.Tree, rootID, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *Node, id string, seen map[string]bool) error {
	if n.ID != "" {
		id = n.ID
	}
	kinds := 0
	for _, set := range []bool{n.Tag != "", n.Text != nil, n.Func != "", n.Component != ""} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return errors.New("E161").WithNode(id)
	}
	if n.Text != nil && len(n.Children) > 0 {
		return errors.New("E161").WithNode(id).WithDetail("Text nodes cannot have children.")
	}
	switch n.Effect {
	case "", "none", "placement", "update":
	default:
		return errors.New("E161").WithNode(id).
			WithDetail("Unknown effect " + n.Effect + "; use placement, update or none.")
	}
	if seen[id] {
		return errors.New("E162").WithNode(id)
	}
	seen[id] = true
	for i, c := range n.Children {
		if err := validateNode(c, childID(id, i), seen); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) label(i int) string {
	if p.Name != "" {
		return p.Name
	}
	return "#" + strconv.Itoa(i+1)
}
