package taxonomy

import "sort"

// Label is one linkbase label for a concept.
type Label struct {
	QName string `json:"qname"`
	Role  string `json:"role"`
	Text  string `json:"text"`
}

// PresentationArc links a parent concept to a child within a presentation role.
type PresentationArc struct {
	Role   string  `json:"role"`
	Parent string  `json:"parent"`
	Child  string  `json:"child"`
	Order  float64 `json:"order"`
}

// PresentationNode is one node of a rendered presentation tree.
type PresentationNode struct {
	QName    string             `json:"qname"`
	Children []PresentationNode `json:"children,omitempty"`
}

// Standard label roles.
const (
	RoleLabel      = "http://www.xbrl.org/2003/role/label"
	RoleTerseLabel = "http://www.xbrl.org/2003/role/terseLabel"
)

// View exposes label and presentation lookups over taxonomy linkbases.
type View struct {
	labels map[string]map[string]string
	arcs   map[string][]PresentationArc
}

func NewView(labels []Label, arcs []PresentationArc) *View {
	v := &View{
		labels: make(map[string]map[string]string),
		arcs:   make(map[string][]PresentationArc),
	}
	for _, l := range labels {
		byRole, ok := v.labels[l.QName]
		if !ok {
			byRole = make(map[string]string)
			v.labels[l.QName] = byRole
		}
		byRole[l.Role] = l.Text
	}
	for _, a := range arcs {
		v.arcs[a.Role] = append(v.arcs[a.Role], a)
	}
	return v
}

// BestLabel returns the first non-empty label among preferredRoles, then any
// non-empty label in role order.
func (v *View) BestLabel(qname string, preferredRoles ...string) (string, bool) {
	byRole := v.labels[qname]
	if len(byRole) == 0 {
		return "", false
	}
	if len(preferredRoles) == 0 {
		preferredRoles = []string{RoleLabel, RoleTerseLabel}
	}
	for _, role := range preferredRoles {
		if text := byRole[role]; text != "" {
			return text, true
		}
	}
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		if text := byRole[role]; text != "" {
			return text, true
		}
	}
	return "", false
}

// PresentationTree renders the arcs of role as a forest. Roots are parents that
// never appear as a child.
func (v *View) PresentationTree(role string) []PresentationNode {
	arcs := v.arcs[role]
	if len(arcs) == 0 {
		return []PresentationNode{}
	}

	children := make(map[string][]PresentationArc)
	isChild := make(map[string]bool)
	for _, a := range arcs {
		children[a.Parent] = append(children[a.Parent], a)
		isChild[a.Child] = true
	}
	for parent := range children {
		sort.SliceStable(children[parent], func(i, j int) bool {
			ci, cj := children[parent][i], children[parent][j]
			if ci.Order != cj.Order {
				return ci.Order < cj.Order
			}
			return ci.Child < cj.Child
		})
	}

	var roots []string
	for parent := range children {
		if !isChild[parent] {
			roots = append(roots, parent)
		}
	}
	sort.Strings(roots)

	var build func(qname string, path map[string]bool) PresentationNode
	build = func(qname string, path map[string]bool) PresentationNode {
		node := PresentationNode{QName: qname}
		if path[qname] {
			return node
		}
		path[qname] = true
		for _, a := range children[qname] {
			node.Children = append(node.Children, build(a.Child, path))
		}
		delete(path, qname)
		return node
	}

	out := make([]PresentationNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r, map[string]bool{}))
	}
	return out
}
