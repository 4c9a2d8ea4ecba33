// Package filters composes OData $filter expressions.
package filters

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const timeLayout = "2006-01-02T15:04:05Z"

// Cond is one term of a boolean combination: either a complete expression or
// a property name paired with a comparison built by Eq, Ne, Gt, Ge, Lt or Le.
type Cond struct {
	field string
	expr  string
}

// Expr wraps a complete expression, such as the result of another And or Or.
func Expr(expr string) Cond {
	return Cond{expr: expr}
}

// Field pairs a property with a comparison: Field("status", Eq(x)) renders
// as "status eq x".
func Field(name, comparison string) Cond {
	return Cond{field: name, expr: comparison}
}

func (c Cond) keyword() bool {
	return c.field != ""
}

func (c Cond) String() string {
	if c.field == "" {
		return c.expr
	}
	return c.field + " " + c.expr
}

func Eq(v any) string { return compare("eq", v) }

func Ne(v any) string { return compare("ne", v) }

func Gt(v any) string { return compare("gt", v) }

func Ge(v any) string { return compare("ge", v) }

func Lt(v any) string { return compare("lt", v) }

func Le(v any) string { return compare("le", v) }

// And joins conds with "and". Plain expressions come first and field terms
// after, each group in argument order. Two or more terms are parenthesized;
// no terms yield an empty string. Empty expressions are skipped.
func And(conds ...Cond) string {
	return combine("and", conds)
}

// Or is And with "or".
func Or(conds ...Cond) string {
	return combine("or", conds)
}

func combine(op string, conds []Cond) string {
	conds = lo.Filter(conds, func(c Cond, _ int) bool { return c.expr != "" })
	positional, keyword := lo.FilterReject(conds, func(c Cond, _ int) bool { return !c.keyword() })
	terms := lo.Map(append(positional, keyword...), func(c Cond, _ int) string { return c.String() })

	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " "+op+" ") + ")"
	}
}

func compare(op string, v any) string {
	return op + " " + literal(v)
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(timeLayout)
	case *time.Time:
		if x == nil {
			return "null"
		}
		return x.UTC().Format(timeLayout)
	case fmt.Stringer:
		return quote(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return quote(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
