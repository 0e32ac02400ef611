package wherein

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jjeffery/crud/private/scanner"
)

var (
	placeholderNumberRE = regexp.MustCompile(`(\?|\$)([0-9]+)?$`)
)

// emptyList replaces the placeholder for an empty slice, so
// that "x in (?)" matches no rows.
const emptyList = "null"

type placeholderInfoT struct {
	leadingSQL        string // SQL before the placeholder
	placeholderText   string
	placeholderPrefix string // prefix that indicates a placeholder ("$", "?")
	origNumber        int    // zero for positional, non-zero for numbered
	argInfo           *argInfoT
}

type argInfoT struct {
	offset  int
	arg     interface{}
	isSlice bool
	slice   reflect.Value
	len     int
}

// Expand takes an SQL query and associated arguments and expands out any arguments that
// are a slice of values. Returns the new, expanded SQL query with arguments that have been
// flattened into a slice of scalar argument values.
//
// If args contains only scalar values, then query and args are returned unchanged.
func Expand(query string, args []interface{}) (newQuery string, newArgs []interface{}, err error) {
	if !hasSlice(args) {
		// no changes need to be made
		return query, args, nil
	}

	return flattenQuery(query, args)
}

func flattenQuery(query string, args []interface{}) (newQuery string, newArgs []interface{}, err error) {
	placeholderInfos, trailingSQL, err := newPlaceholderInfos(query)
	if err != nil {
		return "", nil, err
	}

	argInfos := newArgInfos(args)

	numericPlaceholders, err := arePlaceholdersNumeric(placeholderInfos)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer

	if numericPlaceholders {
		setOffsets(argInfos)
		for _, placeholderInfo := range placeholderInfos {
			buf.WriteString(placeholderInfo.leadingSQL)
			argIndex := placeholderInfo.origNumber - 1
			if argIndex >= len(args) {
				return "", nil, fmt.Errorf("not enough arguments for placeholder %s", placeholderInfo.placeholderText)
			}
			argInfo := argInfos[argIndex]
			start := placeholderInfo.origNumber + argInfo.offset
			count := argInfo.len
			if !argInfo.isSlice {
				count = 1
			} else if count == 0 {
				buf.WriteString(emptyList)
				continue
			}
			end := start + count
			for n := start; n < end; n++ {
				if n > start {
					buf.WriteRune(',')
				}
				buf.WriteString(placeholderInfo.placeholderPrefix)
				buf.WriteString(strconv.Itoa(n))
			}
		}
	} else {
		if len(argInfos) < len(placeholderInfos) {
			return "", nil, errors.New("not enough arguments for placeholders")
		}
		for i, placeholderInfo := range placeholderInfos {
			buf.WriteString(placeholderInfo.leadingSQL)
			argInfo := argInfos[i]
			if !argInfo.isSlice {
				buf.WriteString(placeholderInfo.placeholderText)
			} else if argInfo.len == 0 {
				buf.WriteString(emptyList)
			} else {
				for j := 0; j < argInfo.len; j++ {
					if j > 0 {
						buf.WriteRune(',')
					}
					buf.WriteString(placeholderInfo.placeholderText)
				}
			}
		}
	}

	buf.WriteString(trailingSQL)

	newQuery = buf.String()
	newArgs = flattenArgs(argInfos)
	return newQuery, newArgs, nil
}

func hasSlice(args []interface{}) bool {
	for _, arg := range args {
		if isSlice(arg) {
			return true
		}
	}
	return false
}

// isSlice reports whether arg should be expanded into
// multiple placeholders.
func isSlice(arg interface{}) bool {
	switch arg.(type) {
	case string, []byte, int, uint,
		int8, byte,
		int16, uint16,
		int32, uint32,
		int64, uint64,
		float32, float64,
		bool, time.Time,
		driver.Valuer:
		return false
	}
	return reflect.ValueOf(arg).Kind() == reflect.Slice
}

// Rebind replaces each positional placeholder ("?") in query with
// the placeholder returned by placeholder for its 1-based position.
// Placeholders inside literals, quoted identifiers and comments
// are not changed.
func Rebind(query string, placeholder func(n int) string) (string, error) {
	var buf bytes.Buffer
	var n int
	scan := scanner.New(strings.NewReader(query))
	for scan.Scan() {
		if scan.Token() == scanner.PLACEHOLDER && scan.Text() == "?" {
			n++
			buf.WriteString(placeholder(n))
			continue
		}
		buf.WriteString(scan.Text())
	}
	if err := scan.Err(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func newPlaceholderInfos(query string) ([]*placeholderInfoT, string, error) {
	var placeholderInfos []*placeholderInfoT
	var buf bytes.Buffer
	scan := scanner.New(strings.NewReader(query))
	for scan.Scan() {
		switch scan.Token() {
		case scanner.PLACEHOLDER:
			submatch := placeholderNumberRE.FindStringSubmatch(scan.Text())
			if submatch == nil {
				return nil, "", fmt.Errorf("unrecognized placeholder %s", scan.Text())
			}
			placeholder := &placeholderInfoT{
				leadingSQL:        buf.String(),
				placeholderPrefix: submatch[1],
				placeholderText:   scan.Text(),
			}
			buf.Reset()
			if len(submatch) > 2 && submatch[2] != "" {
				n, err := strconv.Atoi(submatch[2])
				if err != nil {
					return nil, "", fmt.Errorf("invalid placeholder %s", scan.Text())
				}
				if n < 1 {
					return nil, "", fmt.Errorf("invalid placeholder %s", scan.Text())
				}
				placeholder.origNumber = n
			}
			placeholderInfos = append(placeholderInfos, placeholder)
		default:
			buf.WriteString(scan.Text())
		}
	}
	if err := scan.Err(); err != nil {
		return nil, "", err
	}
	return placeholderInfos, buf.String(), nil
}

func arePlaceholdersNumeric(placeholderInfos []*placeholderInfoT) (bool, error) {
	var numericPlaceholders bool
	var positionalPlaceholders bool

	for _, placeholder := range placeholderInfos {
		if placeholder.origNumber > 0 {
			numericPlaceholders = true
		} else {
			positionalPlaceholders = true
		}
	}
	if numericPlaceholders && positionalPlaceholders {
		return false, errors.New("mix of positional and numbered placeholders")
	}

	return numericPlaceholders, nil
}

func newArgInfos(args []interface{}) []*argInfoT {
	argInfos := make([]*argInfoT, 0, len(args))
	for _, arg := range args {
		argInfo := &argInfoT{
			arg: arg,
		}
		if isSlice(arg) {
			argInfo.isSlice = true
			argInfo.slice = reflect.ValueOf(arg)
			argInfo.len = argInfo.slice.Len()
		}
		argInfos = append(argInfos, argInfo)
	}
	return argInfos
}

func flattenArgs(argInfos []*argInfoT) []interface{} {
	var args []interface{}
	for _, argInfo := range argInfos {
		if !argInfo.isSlice {
			args = append(args, argInfo.arg)
		} else {
			for i := 0; i < argInfo.len; i++ {
				args = append(args, argInfo.slice.Index(i).Interface())
			}
		}
	}
	return args
}

func setOffsets(argInfos []*argInfoT) {
	var offset int
	for _, argInfo := range argInfos {
		argInfo.offset = offset
		if argInfo.isSlice {
			offset += argInfo.len - 1
		}
	}
}
