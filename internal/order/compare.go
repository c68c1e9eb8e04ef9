package order

import (
	"cmp"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/magpierre/datagrid/datagrid"
)

// Values compares two cell values of any supported type.
//
// Values of different kinds are ranked nil < bool < number < time < other, so
// a mixed column still sorts consistently. Within a kind, bools compare false
// before true, numbers numerically (integers exactly, without a round trip
// through float64), times chronologically and everything else by its
// formatted text.
func Values(a, b any) datagrid.Ordering {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return datagrid.OrderingOf(cmp.Compare(ra, rb))
	}

	switch ra {
	case rankNil:
		return datagrid.Equal
	case rankBool:
		return datagrid.OrderingOf(boolRank(a.(bool)) - boolRank(b.(bool)))
	case rankNumber:
		x, _ := numberOf(a)
		y, _ := numberOf(b)
		return datagrid.OrderingOf(compareNumbers(x, y))
	case rankTime:
		return datagrid.OrderingOf(a.(time.Time).Compare(b.(time.Time)))
	}

	sa, _ := datagrid.Format(a)
	sb, _ := datagrid.Format(b)
	return datagrid.OrderingOf(strings.Compare(sa, sb))
}

// Natural compares the formatted text of two values, treating runs of digits
// as numbers: "file2" sorts before "file10". With equal numeric value the
// shorter run (fewer leading zeros) sorts first.
func Natural(a, b any) datagrid.Ordering {
	if a == nil || b == nil {
		return nilOrder(a, b)
	}
	sa, _ := datagrid.Format(a)
	sb, _ := datagrid.Format(b)
	return datagrid.OrderingOf(naturalCompare(sa, sb))
}

// ForType returns the default comparator for a column type.
func ForType(dt datagrid.DataType) datagrid.Comparator {
	switch dt {
	case datagrid.TypeString:
		return Natural
	default:
		return Values
	}
}

func nilOrder(a, b any) datagrid.Ordering {
	switch {
	case a == nil && b == nil:
		return datagrid.Equal
	case a == nil:
		return datagrid.Less
	default:
		return datagrid.Greater
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	rankNil = iota
	rankBool
	rankNumber
	rankTime
	rankOther
)

func rankOf(v any) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case time.Time:
		return rankTime
	}
	if _, ok := numberOf(v); ok {
		return rankNumber
	}
	return rankOther
}

type numberKind int

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func numberOf(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{kind: kindInt, i: int64(n)}, true
	case int8:
		return number{kind: kindInt, i: int64(n)}, true
	case int16:
		return number{kind: kindInt, i: int64(n)}, true
	case int32:
		return number{kind: kindInt, i: int64(n)}, true
	case int64:
		return number{kind: kindInt, i: n}, true
	case uint:
		return number{kind: kindUint, u: uint64(n)}, true
	case uint8:
		return number{kind: kindUint, u: uint64(n)}, true
	case uint16:
		return number{kind: kindUint, u: uint64(n)}, true
	case uint32:
		return number{kind: kindUint, u: uint64(n)}, true
	case uint64:
		return number{kind: kindUint, u: n}, true
	case float32:
		return number{kind: kindFloat, f: float64(n)}, true
	case float64:
		return number{kind: kindFloat, f: n}, true
	default:
		return number{}, false
	}
}

func (n number) float() float64 {
	switch n.kind {
	case kindInt:
		return float64(n.i)
	case kindUint:
		return float64(n.u)
	default:
		return n.f
	}
}

// big is exact for every int64 and uint64. NaN is handled by the caller.
func (n number) big() *big.Float {
	switch n.kind {
	case kindInt:
		return new(big.Float).SetInt64(n.i)
	case kindUint:
		return new(big.Float).SetUint64(n.u)
	default:
		return big.NewFloat(n.f)
	}
}

func compareNumbers(x, y number) int {
	switch {
	case x.kind == kindInt && y.kind == kindInt:
		return cmp.Compare(x.i, y.i)
	case x.kind == kindUint && y.kind == kindUint:
		return cmp.Compare(x.u, y.u)
	case x.kind == kindInt && y.kind == kindUint:
		if x.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(x.i), y.u)
	case x.kind == kindUint && y.kind == kindInt:
		if y.i < 0 {
			return 1
		}
		return cmp.Compare(x.u, uint64(y.i))
	}

	// NaN sorts before every other number, as in cmp.Compare.
	if fx, fy := x.float(), y.float(); math.IsNaN(fx) || math.IsNaN(fy) {
		return cmp.Compare(fx, fy)
	}
	return x.big().Cmp(y.big())
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			startA, startB := i, j
			for i < len(a) && a[i] == '0' {
				i++
			}
			for j < len(b) && b[j] == '0' {
				j++
			}
			valA, valB := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}

			// Longer significant run is the bigger number.
			if c := cmp.Compare(i-valA, j-valB); c != 0 {
				return c
			}
			if c := strings.Compare(a[valA:i], b[valB:j]); c != 0 {
				return c
			}
			if c := cmp.Compare(i-startA, j-startB); c != 0 {
				return c
			}
			continue
		}

		if a[i] != b[j] {
			return cmp.Compare(a[i], b[j])
		}
		i++
		j++
	}
	return cmp.Compare(len(a)-i, len(b)-j)
}
