package scoring

// NodeType discriminates between composite and answerable nodes in a
// questionnaire structure.
type NodeType string

const (
	NodeGroup    NodeType = "group"
	NodeQuestion NodeType = "question"
)

// InputType determines which normalization policy applies to a question's
// raw answer.
type InputType string

const (
	InputSingleChoice   InputType = "single-choice"
	InputMultipleChoice InputType = "multiple-choice"
	InputScale          InputType = "scale"
	InputNumber         InputType = "number"
	InputText           InputType = "text"
)

// Option is a candidate answer with a numeric weight, used by choice and
// scale questions.
type Option struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// QuestionnaireNode is one node of a questionnaire structure. Group nodes
// carry children and no answer; question nodes are leaves.
type QuestionnaireNode struct {
	ID       string               `json:"id"`
	Type     NodeType             `json:"type"`
	Title    string               `json:"title"`
	Children []*QuestionnaireNode `json:"children,omitempty"`

	InputType InputType `json:"input_type,omitempty"`
	Options   []Option  `json:"options,omitempty"`
	ScaleMin  *float64  `json:"scale_min,omitempty"`
	ScaleMax  *float64  `json:"scale_max,omitempty"`

	Weight    *float64 `json:"weight,omitempty"`
	Graphable *bool    `json:"graphable,omitempty"`
}

// IsGraphable reports whether the node participates in scoring. Absent
// flags count as graphable.
func (n *QuestionnaireNode) IsGraphable() bool {
	return n.Graphable == nil || *n.Graphable
}

// NodeWeight returns the node's fold-in multiplier, defaulting to 1.
func (n *QuestionnaireNode) NodeWeight() float64 {
	if n.Weight == nil {
		return 1
	}
	return *n.Weight
}

// NodeWithPath annotates a node with its full ancestor-to-self id path and
// depth within the structure.
type NodeWithPath struct {
	Node  *QuestionnaireNode `json:"node"`
	Path  []string           `json:"path"`
	Depth int                `json:"depth"`
}

// Flatten walks the structure depth-first and returns every node annotated
// with its path. Child order is insertion order, never sorted.
func Flatten(structure []*QuestionnaireNode) []NodeWithPath {
	var out []NodeWithPath
	for _, root := range structure {
		out = flattenNode(root, nil, 0, out)
	}
	return out
}

func flattenNode(node *QuestionnaireNode, parentPath []string, depth int, out []NodeWithPath) []NodeWithPath {
	path := make([]string, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	path = append(path, node.ID)

	out = append(out, NodeWithPath{Node: node, Path: path, Depth: depth})
	for _, child := range node.Children {
		out = flattenNode(child, path, depth+1, out)
	}
	return out
}

// LeafQuestions collects all question-type descendants of node depth-first,
// including node itself when it is a question.
func LeafQuestions(node *QuestionnaireNode) []*QuestionnaireNode {
	if node == nil {
		return nil
	}
	if node.Type == NodeQuestion {
		return []*QuestionnaireNode{node}
	}
	var out []*QuestionnaireNode
	for _, child := range node.Children {
		out = append(out, LeafQuestions(child)...)
	}
	return out
}

// StructureIndex provides O(1) question lookup by id for one structure.
// Built once per structure so scoring does not re-scan the tree per answer.
type StructureIndex struct {
	questions map[string]*QuestionnaireNode
}

// NewStructureIndex indexes every question node of the structure by id.
// Node ids are unique within one template; on duplicates the first wins.
func NewStructureIndex(structure []*QuestionnaireNode) *StructureIndex {
	idx := &StructureIndex{questions: make(map[string]*QuestionnaireNode)}
	for _, entry := range Flatten(structure) {
		if entry.Node.Type != NodeQuestion {
			continue
		}
		if _, exists := idx.questions[entry.Node.ID]; !exists {
			idx.questions[entry.Node.ID] = entry.Node
		}
	}
	return idx
}

// Question returns the question node with the given id, or nil when the id
// is absent from the structure.
func (idx *StructureIndex) Question(id string) *QuestionnaireNode {
	return idx.questions[id]
}

// pathHasPrefix reports whether path starts with the full prefix sequence.
func pathHasPrefix(path, prefix []string) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i, id := range prefix {
		if path[i] != id {
			return false
		}
	}
	return true
}
