package patch

import (
	"regexp"
	"strings"

	"storefront/internal/apperrors"
)

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Statement is an SQL template with positional "?" parameters and the values
// bound to them, in order.
type Statement struct {
	SQL  string
	Args []interface{}
}

type assignment struct {
	column string
	value  interface{}
}

// Builder assembles an UPDATE touching only the columns that were set.
// Table and column names come from code; values are always bound.
type Builder struct {
	table    string
	sets     []assignment
	keyCol   string
	keyValue string
	err      error
}

// Update starts a statement against table.
func Update(table string) *Builder {
	b := &Builder{table: table}
	if !identRe.MatchString(table) {
		b.err = apperrors.New(apperrors.Internal, "invalid table name %q", table)
	}
	return b
}

// Set adds column = value. Setting the same column twice keeps the last value.
func (b *Builder) Set(column string, value interface{}) *Builder {
	if b.err != nil {
		return b
	}
	if !identRe.MatchString(column) {
		b.err = apperrors.New(apperrors.Internal, "invalid column name %q", column)
		return b
	}
	for i := range b.sets {
		if b.sets[i].column == column {
			b.sets[i].value = value
			return b
		}
	}
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetOptional adds column = value when opt is present.
func SetOptional[T any](b *Builder, column string, opt Optional[T]) *Builder {
	if v, ok := opt.Get(); ok {
		return b.Set(column, v)
	}
	return b
}

// Where restricts the update to the row whose column equals id.
func (b *Builder) Where(column, id string) *Builder {
	if b.err != nil {
		return b
	}
	if !identRe.MatchString(column) {
		b.err = apperrors.New(apperrors.Internal, "invalid column name %q", column)
		return b
	}
	b.keyCol = column
	b.keyValue = id
	return b
}

// Len returns the number of columns set so far.
func (b *Builder) Len() int {
	return len(b.sets)
}

// Build renders the statement. It fails with a Validation error when the row
// identifier is missing or no column was set.
func (b *Builder) Build() (Statement, error) {
	if b.err != nil {
		return Statement{}, b.err
	}
	if b.keyCol == "" || strings.TrimSpace(b.keyValue) == "" {
		return Statement{}, apperrors.New(apperrors.Validation, "an identifier is required for an update")
	}
	if len(b.sets) == 0 {
		return Statement{}, apperrors.New(apperrors.Validation, "at least one field must be provided for an update")
	}

	var sb strings.Builder
	args := make([]interface{}, 0, len(b.sets)+1)
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	for i, a := range b.sets {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.column)
		sb.WriteString(" = ?")
		args = append(args, a.value)
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(b.keyCol)
	sb.WriteString(" = ?")
	args = append(args, b.keyValue)

	return Statement{SQL: sb.String(), Args: args}, nil
}
