package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// ErrUnknownAccount is returned when a code is not in the chart.
var ErrUnknownAccount = errors.New("unknown account")

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
	children map[string][]string
}

// NewService creates a Service from a slice of accounts. Accounts are kept
// in code order.
func NewService(accounts []model.Account) *Service {
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareCodes(sorted[i].Code, sorted[j].Code) < 0
	})

	byCode := make(map[string]model.Account, len(sorted))
	children := make(map[string][]string)
	for _, a := range sorted {
		byCode[a.Code] = a
		children[ParentCode(a.Code)] = append(children[ParentCode(a.Code)], a.Code)
	}
	return &Service{accounts: sorted, byCode: byCode, children: children}
}

// LoadFile reads a chart-of-accounts CSV and returns a Service.
func LoadFile(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in code order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// TypeOf returns the type of the account with the given code.
func (s *Service) TypeOf(code string) (model.AccountType, error) {
	a, ok := s.byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAccount, code)
	}
	return a.Type, nil
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Roots returns the top-level accounts.
func (s *Service) Roots() []model.Account {
	return s.Children("")
}

// Children returns the direct children of code.
func (s *Service) Children(code string) []model.Account {
	codes := s.children[code]
	result := make([]model.Account, 0, len(codes))
	for _, c := range codes {
		result = append(result, s.byCode[c])
	}
	return result
}

// Descendants returns every account beneath code.
func (s *Service) Descendants(code string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if IsDescendant(a.Code, code) {
			result = append(result, a)
		}
	}
	return result
}

// AtDepth returns the accounts whose code has exactly depth segments.
func (s *Service) AtDepth(depth int) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if Depth(a.Code) == depth {
			result = append(result, a)
		}
	}
	return result
}

// IsLeaf reports whether code exists and has no children. Only leaf
// accounts accept journal lines.
func (s *Service) IsLeaf(code string) bool {
	_, ok := s.byCode[code]
	return ok && len(s.children[code]) == 0
}

// MaxDepth returns the depth of the deepest account.
func (s *Service) MaxDepth() int {
	max := 0
	for _, a := range s.accounts {
		if d := Depth(a.Code); d > max {
			max = d
		}
	}
	return max
}

// SaveFile writes the chart of accounts as CSV to path.
func (s *Service) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
