package spec

// nodeKind discriminates scope and test nodes in the arena.
type nodeKind int

const (
	nodeScope nodeKind = iota
	nodeTest
)

// node is one entry of the registration tree arena. Nodes reference each
// other by index, never by pointer, so there is no cyclic ownership. The
// parent index is the non-owning back-reference used for name
// reconstruction and depth computation.
type node struct {
	kind     nodeKind
	parent   int
	children []int

	// text is the raw clause text; display is the text prefixed with the
	// rendered connective (after suppression).
	text    string
	conn    Connective
	display string

	// Test-only fields.
	fullName string
	ignored  bool
	body     Body
}

const rootNode = 0

// registrationTree is the ordered forest built during the registration
// phase. Node 0 is the implicit unnamed root scope; children keep
// insertion order, which is the canonical execution and report order.
type registrationTree struct {
	nodes  []node
	byName map[string]int
	// names keeps full test names in registration order across the whole tree.
	names []string
}

func newRegistrationTree() *registrationTree {
	return &registrationTree{
		nodes:  []node{{kind: nodeScope, parent: -1}},
		byName: make(map[string]int),
	}
}

// addScope appends a scope node as the last child of parent and returns its id.
func (t *registrationTree) addScope(parent int, text string, conn Connective) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{
		kind:    nodeScope,
		parent:  parent,
		text:    text,
		conn:    conn,
		display: CombineName(nil, conn, text),
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// addTest appends a test node as the last child of parent. The full name is
// computed from the ancestor scope chain; a collision with any previously
// registered test, ignored or not, is a DuplicateNameError and leaves the
// tree untouched.
func (t *registrationTree) addTest(parent int, text string, conn Connective, body Body, ignored bool) (int, string, error) {
	fullName := CombineName(t.ancestorDisplay(parent), conn, text)
	if _, exists := t.byName[fullName]; exists {
		return 0, "", &DuplicateNameError{Name: fullName}
	}

	id := len(t.nodes)
	t.nodes = append(t.nodes, node{
		kind:     nodeTest,
		parent:   parent,
		text:     text,
		conn:     conn,
		display:  CombineName(nil, conn, text),
		fullName: fullName,
		ignored:  ignored,
		body:     body,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	t.byName[fullName] = id
	t.names = append(t.names, fullName)
	return id, fullName, nil
}

// ancestorDisplay returns the display texts of the scope chain from the
// root (exclusive) down to and including id.
func (t *registrationTree) ancestorDisplay(id int) []string {
	var chain []string
	for cur := id; cur != rootNode && cur >= 0; cur = t.nodes[cur].parent {
		chain = append(chain, t.nodes[cur].display)
	}
	// Reverse: collected leaf-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// depth returns the number of scope ancestors between id and the root.
func (t *registrationTree) depth(id int) int {
	d := 0
	for cur := t.nodes[id].parent; cur != rootNode && cur >= 0; cur = t.nodes[cur].parent {
		d++
	}
	return d
}

// testID returns the node id of the test with the given full name.
func (t *registrationTree) testID(fullName string) (int, bool) {
	id, ok := t.byName[fullName]
	return id, ok
}

// testNames returns all full test names in registration order.
func (t *registrationTree) testNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
