package ledger

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func debit(code string, amount string, on time.Time) Line {
	return Line{AccountCode: code, Debit: dec(amount), Date: on}
}

func credit(code string, amount string, on time.Time) Line {
	return Line{AccountCode: code, Credit: dec(amount), Date: on}
}

func chartOf(accts ...model.Account) *accounts.Service {
	return accounts.NewService(accts)
}

func acct(code string, typ model.AccountType) model.Account {
	return model.Account{Code: code, Name: "Account " + code, Type: typ, Active: true}
}

func TestBalance_LeafRollsUpToParent(t *testing.T) {
	chart := chartOf(acct("1", model.AccountTypeAsset), acct("1-1", model.AccountTypeAsset))
	lines := []Line{debit("1-1", "100", date(2025, 1, 1))}

	assert.True(t, Balance(chart, lines, "1-1").Equal(dec("100")))
	assert.True(t, Balance(chart, lines, "1").Equal(dec("100")))
}

func TestBalance_Polarity(t *testing.T) {
	chart := chartOf(
		acct("1", model.AccountTypeAsset),
		acct("2", model.AccountTypeLiability),
		acct("4", model.AccountTypeRevenue),
		acct("5", model.AccountTypeExpense),
	)
	on := date(2025, 2, 1)
	lines := []Line{
		debit("1", "500", on), credit("2", "500", on),
		debit("1", "300", on), credit("4", "300", on),
		debit("5", "80", on), credit("1", "80", on),
	}

	assert.True(t, Balance(chart, lines, "1").Equal(dec("720")))
	assert.True(t, Balance(chart, lines, "2").Equal(dec("500")))
	assert.True(t, Balance(chart, lines, "4").Equal(dec("300")))
	assert.True(t, Balance(chart, lines, "5").Equal(dec("80")))
	assert.True(t, Balance(chart, lines, "9").IsZero(), "unknown account has no balance")
}

func TestBalance_SiblingPrefixNotDescendant(t *testing.T) {
	chart := chartOf(
		acct("1", model.AccountTypeAsset),
		acct("1-1", model.AccountTypeAsset),
		acct("1-10", model.AccountTypeAsset),
	)
	lines := []Line{debit("1-10", "25", date(2025, 1, 1))}

	assert.True(t, Balance(chart, lines, "1-1").IsZero())
	assert.True(t, Balance(chart, lines, "1-10").Equal(dec("25")))
}

func TestBuildTree(t *testing.T) {
	chart := accounts.NewService(accounts.DefaultChart())
	on := date(2025, 3, 10)
	lines := []Line{
		debit(accounts.CodeBank, "1000", on), credit(accounts.CodeCapital, "1000", on),
		debit(accounts.CodeFuelExpense, "150", on), credit(accounts.CodeCash, "150", on),
		debit(accounts.CodeReceivables, "400", on), credit(accounts.CodeFreightRevenue, "400", on),
	}

	roots := BuildTree(chart, lines, 0)
	require.Len(t, roots, 5)

	assets := roots[0]
	assert.Equal(t, "1", assets.Account.Code)
	assert.True(t, assets.Balance.Equal(dec("1250")), "assets = %s", assets.Balance)
	assert.True(t, assets.Total.Debit.Equal(dec("1400")))
	assert.True(t, assets.Total.Credit.Equal(dec("150")))

	cashAndBanks := Find(roots, "1-1")
	require.NotNil(t, cashAndBanks)
	assert.True(t, cashAndBanks.Balance.Equal(dec("850")))
	assert.True(t, cashAndBanks.Own.Debit.IsZero(), "no lines posted directly on 1-1")

	assert.True(t, Find(roots, "3").Balance.Equal(dec("1000")))
	assert.True(t, Find(roots, "4").Balance.Equal(dec("400")))
	assert.True(t, Find(roots, "5").Balance.Equal(dec("150")))
	assert.True(t, Find(roots, "2").Balance.IsZero())
}

func TestBuildTree_MaxDepthFoldsChildren(t *testing.T) {
	chart := accounts.NewService(accounts.DefaultChart())
	on := date(2025, 3, 10)
	lines := []Line{debit(accounts.CodeCash, "10", on), credit(accounts.CodeCapital, "10", on)}

	roots := BuildTree(chart, lines, 1)
	require.Len(t, roots, 5)
	for _, r := range roots {
		assert.True(t, r.Leaf(), "depth 1 hides children of %s", r.Account.Code)
	}
	assert.True(t, roots[0].Balance.Equal(dec("10")), "folded children still roll up")

	roots = BuildTree(chart, lines, 2)
	assert.NotNil(t, Find(roots, "1-1"))
	assert.Nil(t, Find(roots, accounts.CodeCash))
	assert.True(t, Find(roots, "1-1").Balance.Equal(dec("10")))
}

func TestTreeOf(t *testing.T) {
	chart := accounts.NewService(accounts.DefaultChart())
	on := date(2025, 3, 10)
	lines := []Line{debit(accounts.CodeCash, "10", on), debit(accounts.CodeBank, "5", on)}

	node, ok := TreeOf(chart, lines, "1-1", 1)
	require.True(t, ok)
	assert.True(t, node.Leaf())
	assert.True(t, node.Balance.Equal(dec("15")))

	node, ok = TreeOf(chart, lines, "1-1", 0)
	require.True(t, ok)
	assert.Len(t, node.Children, 2)

	_, ok = TreeOf(chart, lines, "8", 0)
	assert.False(t, ok)
}

// Randomised check of the roll-up properties: the root balance equals the
// sum of its leaves, and a new leaf line moves exactly its ancestors.
func TestBuildTree_RollupProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 50; iter++ {
		chart, leaves := randomChart(rng)
		var lines []Line
		for i := 0; i < 40; i++ {
			code := leaves[rng.Intn(len(leaves))]
			amt := decimal.New(rng.Int63n(100000), -2)
			if rng.Intn(2) == 0 {
				lines = append(lines, Line{AccountCode: code, Debit: amt})
			} else {
				lines = append(lines, Line{AccountCode: code, Credit: amt})
			}
		}

		roots := BuildTree(chart, lines, 0)
		for _, root := range roots {
			leafSum := decimal.Zero
			Walk([]*Node{root}, func(n *Node) {
				if n.Leaf() {
					leafSum = leafSum.Add(n.Balance)
				}
			})
			assert.True(t, root.Balance.Equal(leafSum), "root %s: %s != %s", root.Account.Code, root.Balance, leafSum)
		}

		target := leaves[rng.Intn(len(leaves))]
		extra := Line{AccountCode: target, Debit: decimal.New(rng.Int63n(10000)+1, -2)}
		after := BuildTree(chart, append(append([]Line{}, lines...), extra), 0)

		before := Flatten(roots)
		afterFlat := Flatten(after)
		require.Equal(t, len(before), len(afterFlat))
		for i := range before {
			code := before[i].Account.Code
			diff := afterFlat[i].Balance.Sub(before[i].Balance)
			if accounts.InSubtree(target, code) {
				want := Signed(extra, before[i].Account.Type)
				assert.True(t, diff.Equal(want), "ancestor %s moved by %s, want %s", code, diff, want)
			} else {
				assert.True(t, diff.IsZero(), "unrelated %s moved by %s", code, diff)
			}
		}
	}
}

func randomChart(rng *rand.Rand) (*accounts.Service, []string) {
	var accts []model.Account
	var leaves []string
	var grow func(code string, typ model.AccountType, depth int)
	grow = func(code string, typ model.AccountType, depth int) {
		accts = append(accts, acct(code, typ))
		n := 0
		if depth < 4 {
			n = rng.Intn(4)
		}
		if n == 0 {
			leaves = append(leaves, code)
			return
		}
		for i := 1; i <= n; i++ {
			grow(fmt.Sprintf("%s-%d", code, i), typ, depth+1)
		}
	}
	for i, typ := range model.AccountTypes {
		grow(fmt.Sprint(i+1), typ, 1)
	}
	return accounts.NewService(accts), leaves
}

func TestOrphans(t *testing.T) {
	chart := chartOf(acct("1", model.AccountTypeAsset))
	lines := []Line{debit("1", "1", date(2025, 1, 1)), debit("7", "1", date(2025, 1, 1))}

	orphans := Orphans(chart, lines)
	require.Len(t, orphans, 1)
	assert.Equal(t, "7", orphans[0].AccountCode)
}

func TestPeriod(t *testing.T) {
	p := Period{From: date(2025, 1, 1), To: date(2025, 1, 31)}

	assert.True(t, p.Contains(date(2025, 1, 1)))
	assert.True(t, p.Contains(time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)), "the last day is inclusive")
	assert.False(t, p.Contains(date(2025, 2, 1)))
	assert.False(t, p.Contains(date(2024, 12, 31)))
	assert.True(t, p.Precedes(date(2024, 12, 31)))
	assert.False(t, p.Precedes(date(2025, 1, 1)))

	open := Period{}
	assert.True(t, open.Contains(date(1990, 5, 5)))
	assert.False(t, open.Precedes(date(1990, 5, 5)))
}
