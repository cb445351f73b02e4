package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is a primitive type of a stat field.
type Kind int

// Supported field kinds.
const (
	String Kind = iota
	Int
	Float
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single typed stat value. The zero Value is an empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// IntValue returns an integer value.
func IntValue(i int) Value { return Value{kind: Int, num: float64(i)} }

// FloatValue returns a float value.
func FloatValue(f float64) Value { return Value{kind: Float, num: f} }

// Zero returns the zero value of the given kind.
func Zero(k Kind) Value { return Value{kind: k} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Numeric reports whether the value is an int or a float.
func (v Value) Numeric() bool { return v.kind == Int || v.kind == Float }

// Str returns the string payload, empty for numeric values.
func (v Value) Str() string { return v.str }

// Float returns the numeric payload, zero for string values.
func (v Value) Float() float64 { return v.num }

// Int returns the numeric payload truncated to an int.
func (v Value) Int() int { return int(v.num) }

// String formats the value for export. NaN floats format as an empty string.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(int64(v.num), 10)
	case Float:
		if math.IsNaN(v.num) {
			return ""
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.str
	}
}

// parse coerces a raw token into a value of the given kind. On failure the
// zero value of the kind is returned together with the error.
func parse(k Kind, token string) (Value, error) {
	token = strings.TrimSpace(token)
	switch k {
	case Int:
		i, err := strconv.Atoi(token)
		if err != nil {
			return Zero(Int), fmt.Errorf("parse int %q: %w", token, err)
		}
		return IntValue(i), nil
	case Float:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Zero(Float), fmt.Errorf("parse float %q: %w", token, err)
		}
		return FloatValue(f), nil
	default:
		return StringValue(token), nil
	}
}

// Field describes a single named column of a stat record.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered list of fields.
type Schema []Field

// Index returns the position of the named field or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Names returns field names in declared order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// BasicSchema lists the box-score fields of a skater season.
var BasicSchema = Schema{
	{"team", String},
	{"position", String},
	{"games_played", Int},
	{"goals", Int},
	{"assists", Int},
	{"pts", Int},
	{"plus_minus", Int},
	{"penalty_mins", Int},
	{"shots_on_goal", Int},
	{"game_winning_goals", Int},
	{"power_play_goals", Int},
	{"power_play_assists", Int},
	{"short_handed_goals", Int},
	{"short_handed_assists", Int},
	{"hits", Int},
	{"blocked_shots", Int},
}

// AdvancedSchema lists the possession and usage fields of a skater season.
var AdvancedSchema = Schema{
	{"age", Int},
	{"corsi_for", Int},
	{"corsi_against", Int},
	{"corsi_for_pct", Float},
	{"corsi_for_pct_rel", Float},
	{"fenwick_for", Int},
	{"fenwick_against", Int},
	{"fenwick_for_pct", Float},
	{"fenwick_for_pct_rel", Float},
	{"on_ice_shooting_pct", Float},
	{"on_ice_save_pct", Float},
	{"pdo", Float},
	{"offensive_zone_start_pct", Float},
	{"defensive_zone_start_pct", Float},
	{"time_on_ice_per_60", Float},
	{"time_on_ice_even", String},
	{"takeaways", Int},
	{"giveaways", Int},
	{"even_plus_minus", Int},
	{"shot_attempts", Int},
	{"shot_through_pct", Float},
}

// CombinedSchema is the basic schema followed by the advanced one.
var CombinedSchema = append(append(Schema{}, BasicSchema...), AdvancedSchema...)

// FieldError reports a field that could not be coerced or projected.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string { return fmt.Sprintf("field %s: %v", e.Field, e.Err) }

func (e FieldError) Unwrap() error { return e.Err }

// Record is an immutable set of typed values laid out by a schema.
type Record struct {
	schema Schema
	values []Value
}

// newRecord maps tokens onto the schema positionally. Missing tokens are
// treated as empty ones.
func newRecord(schema Schema, tokens []string) (Record, []FieldError) {
	r := Record{schema: schema, values: make([]Value, len(schema))}
	var errs []FieldError
	for i, f := range schema {
		var token string
		if i < len(tokens) {
			token = tokens[i]
		}
		v, err := parse(f.Kind, token)
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Err: err})
		}
		r.values[i] = v
	}
	return r, errs
}

// Schema returns the record layout.
func (r Record) Schema() Schema { return r.schema }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// At returns the i-th value in schema order.
func (r Record) At(i int) Value { return r.values[i] }

// Get returns the named value.
func (r Record) Get(name string) (Value, bool) {
	idx := r.schema.Index(name)
	if idx < 0 {
		return Value{}, false
	}
	return r.values[idx], true
}

// Values returns a copy of all values in schema order.
func (r Record) Values() []Value {
	res := make([]Value, len(r.values))
	copy(res, r.values)
	return res
}

func (r Record) get(name string) Value {
	v, _ := r.Get(name)
	return v
}

// BasicStats is a single season of box-score stats.
type BasicStats struct{ Record }

// NewBasicStats builds basic stats from raw tokens ordered as BasicSchema.
// Tokens that fail coercion are reported and replaced with zero values.
func NewBasicStats(tokens []string) (BasicStats, []FieldError) {
	r, errs := newRecord(BasicSchema, tokens)
	return BasicStats{r}, errs
}

// Team returns the team abbreviation.
func (b BasicStats) Team() string { return b.get("team").Str() }

// Position returns the position label.
func (b BasicStats) Position() string { return b.get("position").Str() }

// GamesPlayed returns the number of games played.
func (b BasicStats) GamesPlayed() int { return b.get("games_played").Int() }

// AdvancedStats is a single season of possession stats.
type AdvancedStats struct{ Record }

// NewAdvancedStats builds advanced stats from raw tokens ordered as AdvancedSchema.
func NewAdvancedStats(tokens []string) (AdvancedStats, []FieldError) {
	r, errs := newRecord(AdvancedSchema, tokens)
	return AdvancedStats{r}, errs
}

// Age returns the player age for the season.
func (a AdvancedStats) Age() int { return a.get("age").Int() }
