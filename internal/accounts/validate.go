package accounts

import (
	"fmt"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// ValidationError describes a single problem with the chart.
type ValidationError struct {
	Code        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("account %s: %s", e.Code, e.Description)
}

// Validate checks that codes are well formed and unique, that every
// non-root account has a parent in the chart, and that children share
// their parent's type.
func Validate(accounts []model.Account) []ValidationError {
	var errs []ValidationError

	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		if !ValidCode(a.Code) {
			errs = append(errs, ValidationError{Code: a.Code, Description: "code must be digit segments separated by " + Separator})
			continue
		}
		if _, dup := byCode[a.Code]; dup {
			errs = append(errs, ValidationError{Code: a.Code, Description: "duplicate code"})
			continue
		}
		if !a.Type.Valid() {
			errs = append(errs, ValidationError{Code: a.Code, Description: fmt.Sprintf("invalid type %q", a.Type)})
		}
		if a.Name == "" {
			errs = append(errs, ValidationError{Code: a.Code, Description: "name is required"})
		}
		byCode[a.Code] = a
	}

	for _, a := range accounts {
		parent := ParentCode(a.Code)
		if parent == "" || !ValidCode(a.Code) {
			continue
		}
		p, ok := byCode[parent]
		if !ok {
			errs = append(errs, ValidationError{Code: a.Code, Description: fmt.Sprintf("parent %s not in chart", parent)})
			continue
		}
		if p.Type != a.Type {
			errs = append(errs, ValidationError{
				Code:        a.Code,
				Description: fmt.Sprintf("type %s differs from parent %s type %s", a.Type, parent, p.Type),
			})
		}
	}

	return errs
}
