package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Node is an account with the totals of its whole subtree.
type Node struct {
	Account  model.Account   `json:"account"`
	Depth    int             `json:"depth"`
	Own      Totals          `json:"own"`
	Total    Totals          `json:"total"`
	Balance  decimal.Decimal `json:"balance"`
	Children []*Node         `json:"children,omitempty"`
}

// Leaf reports whether the node has no visible children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// BuildTree rebuilds the account tree from the chart and rolls every line
// up into its account and all of that account's ancestors. Accounts deeper
// than maxDepth are folded into their ancestor at maxDepth; zero means no
// limit.
func BuildTree(chart Chart, lines []Line, maxDepth int) []*Node {
	sums := SumByAccount(lines)
	var roots []*Node
	for _, acct := range chart.Roots() {
		roots = append(roots, buildNode(chart, sums, acct, 1, maxDepth))
	}
	return roots
}

func buildNode(chart Chart, sums map[string]Totals, acct model.Account, depth, maxDepth int) *Node {
	n := &Node{Account: acct, Depth: depth, Own: sums[acct.Code]}
	n.Total = n.Own
	for _, child := range chart.Children(acct.Code) {
		c := buildNode(chart, sums, child, depth+1, maxDepth)
		n.Total = n.Total.Plus(c.Total)
		if maxDepth == 0 || depth < maxDepth {
			n.Children = append(n.Children, c)
		}
	}
	n.Balance = n.Total.SignedFor(acct.Type)
	return n
}

// TreeOf builds the tree rooted at code only.
func TreeOf(chart Chart, lines []Line, code string, maxDepth int) (*Node, bool) {
	acct, ok := chart.Get(code)
	if !ok {
		return nil, false
	}
	sums := SumByAccount(lines)
	depth := accounts.Depth(code)
	limit := maxDepth
	if maxDepth > 0 {
		limit = depth + maxDepth - 1
	}
	return buildNode(chart, sums, acct, depth, limit), true
}

// Walk visits nodes depth first, parents before children.
func Walk(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		fn(n)
		Walk(n.Children, fn)
	}
}

// Flatten returns the nodes in depth-first order.
func Flatten(nodes []*Node) []*Node {
	var out []*Node
	Walk(nodes, func(n *Node) { out = append(out, n) })
	return out
}

// Find returns the node for code, if it is visible in the tree.
func Find(nodes []*Node, code string) *Node {
	var found *Node
	Walk(nodes, func(n *Node) {
		if found == nil && n.Account.Code == code {
			found = n
		}
	})
	return found
}

// SumBalances adds the balances of the given nodes.
func SumBalances(nodes []*Node) decimal.Decimal {
	sum := decimal.Zero
	for _, n := range nodes {
		sum = sum.Add(n.Balance)
	}
	return sum
}
