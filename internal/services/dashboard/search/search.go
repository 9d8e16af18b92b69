// Package search filters company summaries with AIP-160 filter expressions,
// for example `status = "active" AND type:"funeral_home"`.
package search

import (
	"fmt"
	"slices"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

// Predicate reports whether a company matches a compiled filter.
type Predicate func(organization.Company) bool

// Declarations returns the identifiers a filter may reference.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("id", filtering.TypeString),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("short_name", filtering.TypeString),
		filtering.DeclareIdent("status", filtering.TypeString),
		filtering.DeclareIdent("business_entity", filtering.TypeString),
		filtering.DeclareIdent("contract_no", filtering.TypeString),
		filtering.DeclareIdent("type", filtering.TypeList(filtering.TypeString)),
	)
}

// scalarFields maps string identifiers to company accessors.
var scalarFields = map[string]func(organization.Company) string{
	"id":              func(c organization.Company) string { return c.ID },
	"name":            func(c organization.Company) string { return c.Name },
	"short_name":      func(c organization.Company) string { return c.ShortName },
	"status":          func(c organization.Company) string { return c.Status },
	"business_entity": func(c organization.Company) string { return c.BusinessEntity },
	"contract_no":     func(c organization.Company) string { return c.Contract.No },
}

// Compile parses and type-checks filter. An empty filter matches everything.
func Compile(filter string) (Predicate, error) {
	if strings.TrimSpace(filter) == "" {
		return func(organization.Company) bool { return true }, nil
	}
	decls, err := Declarations()
	if err != nil {
		return nil, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	if parsed.CheckedExpr == nil || parsed.CheckedExpr.GetExpr() == nil {
		return func(organization.Company) bool { return true }, nil
	}
	return compileExpr(parsed.CheckedExpr.GetExpr())
}

// Filter returns the companies matching predicate, in input order.
func Filter(companies []organization.Company, predicate Predicate) []organization.Company {
	out := make([]organization.Company, 0, len(companies))
	for _, company := range companies {
		if predicate == nil || predicate(company) {
			out = append(out, company)
		}
	}
	return out
}

func compileExpr(e *expr.Expr) (Predicate, error) {
	call := e.GetCallExpr()
	if call == nil {
		return nil, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	switch call.GetFunction() {
	case filtering.FunctionAnd:
		left, right, err := compilePair(call.GetArgs())
		if err != nil {
			return nil, err
		}
		return func(c organization.Company) bool { return left(c) && right(c) }, nil
	case filtering.FunctionOr:
		left, right, err := compilePair(call.GetArgs())
		if err != nil {
			return nil, err
		}
		return func(c organization.Company) bool { return left(c) || right(c) }, nil
	case filtering.FunctionNot:
		if len(call.GetArgs()) != 1 {
			return nil, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := compileExpr(call.GetArgs()[0])
		if err != nil {
			return nil, err
		}
		return func(c organization.Company) bool { return !inner(c) }, nil
	case filtering.FunctionEquals:
		return compileComparison(call.GetArgs(), false)
	case filtering.FunctionNotEquals:
		return compileComparison(call.GetArgs(), true)
	case filtering.FunctionHas:
		return compileHas(call.GetArgs())
	default:
		return nil, fmt.Errorf("unsupported function: %s", call.GetFunction())
	}
}

func compilePair(args []*expr.Expr) (Predicate, Predicate, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("logical operator requires 2 arguments")
	}
	left, err := compileExpr(args[0])
	if err != nil {
		return nil, nil, err
	}
	right, err := compileExpr(args[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func compileComparison(args []*expr.Expr, negate bool) (Predicate, error) {
	field, value, err := fieldAndValue(args)
	if err != nil {
		return nil, err
	}
	get, ok := scalarFields[field]
	if !ok {
		return nil, fmt.Errorf("field %s does not support comparison", field)
	}
	return func(c organization.Company) bool { return (get(c) == value) != negate }, nil
}

// compileHas treats ":" as case-insensitive substring on text fields and as
// membership on type.
func compileHas(args []*expr.Expr) (Predicate, error) {
	field, value, err := fieldAndValue(args)
	if err != nil {
		return nil, err
	}
	if field == "type" {
		return func(c organization.Company) bool { return slices.Contains(c.Type, value) }, nil
	}
	get, ok := scalarFields[field]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", field)
	}
	needle := strings.ToLower(value)
	return func(c organization.Company) bool {
		return strings.Contains(strings.ToLower(get(c)), needle)
	}, nil
}

func fieldAndValue(args []*expr.Expr) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("comparison requires 2 arguments")
	}
	ident := args[0].GetIdentExpr()
	if ident == nil {
		return "", "", fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	constant := args[1].GetConstExpr()
	if constant == nil {
		return "", "", fmt.Errorf("expected constant, got %T", args[1].GetExprKind())
	}
	value, ok := constant.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return "", "", fmt.Errorf("expected string value, got %T", constant.GetConstantKind())
	}
	return ident.GetName(), value.StringValue, nil
}
