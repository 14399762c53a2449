package irload

// Document is the decoded form of an IR file.
type Document struct {
	AllowUnregisteredDialects bool          `yaml:"allow_unregistered_dialects" json:"allow_unregistered_dialects,omitempty"`
	Threads                   int           `yaml:"threads" json:"threads,omitempty"`
	Dialects                  []DialectDecl `yaml:"dialects" json:"dialects,omitempty"`
	Root                      *OpNode       `yaml:"root" json:"root"`
}

// DialectDecl declares a dialect beyond the standard set.
type DialectDecl struct {
	Name            string            `yaml:"name" json:"name"`
	AllowUnknownOps bool              `yaml:"allow_unknown_ops" json:"allow_unknown_ops,omitempty"`
	Attributes      map[string]string `yaml:"attributes" json:"attributes,omitempty"` // attribute name -> kind
	Ops             []OpDecl          `yaml:"ops" json:"ops,omitempty"`
}

// OpDecl declares one registered operation. Nil counts are variadic.
type OpDecl struct {
	Name               string            `yaml:"name" json:"name"`
	Traits             []string          `yaml:"traits" json:"traits,omitempty"`
	RegionKinds        []string          `yaml:"region_kinds" json:"region_kinds,omitempty"`
	Operands           *int              `yaml:"operands" json:"operands,omitempty"`
	MinOperands        int               `yaml:"min_operands" json:"min_operands,omitempty"`
	Results            *int              `yaml:"results" json:"results,omitempty"`
	Regions            *int              `yaml:"regions" json:"regions,omitempty"`
	Successors         *int              `yaml:"successors" json:"successors,omitempty"`
	RequiredAttributes map[string]string `yaml:"required_attributes" json:"required_attributes,omitempty"`
}

// OpNode is one operation in the document tree.
type OpNode struct {
	Op         string         `yaml:"op" json:"op"`
	Loc        string         `yaml:"loc" json:"loc,omitempty"`
	Operands   []*string      `yaml:"operands" json:"operands,omitempty"` // null or "" is a null operand
	Results    []string       `yaml:"results" json:"results,omitempty"`
	Attributes map[string]any `yaml:"attributes" json:"attributes,omitempty"`
	Successors []string       `yaml:"successors" json:"successors,omitempty"`
	Regions    []RegionNode   `yaml:"regions" json:"regions,omitempty"`

	// Source position, filled by the YAML reader.
	Line   int `yaml:"-" json:"-"`
	Column int `yaml:"-" json:"-"`
}

// RegionNode lists the blocks of one region.
type RegionNode struct {
	Blocks []BlockNode `yaml:"blocks" json:"blocks,omitempty"`
}

// BlockNode is a block with optional label and named arguments.
type BlockNode struct {
	Label string   `yaml:"label" json:"label,omitempty"`
	Args  []string `yaml:"args" json:"args,omitempty"`
	Ops   []OpNode `yaml:"ops" json:"ops,omitempty"`

	Line   int `yaml:"-" json:"-"`
	Column int `yaml:"-" json:"-"`
}
