// Package core provides filtering and lookup over active notifications.
package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/hud/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: message, color, permanent, remaining, age
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	// Cached parsed values
	regex       *regexp.Regexp
	colorVal    model.Color
	durationVal time.Duration
	boolVal     bool
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// ParseFilter reads a comma separated list of conditions, all of which must
// hold. Each condition is "field op value".
//
// Fields: message, color, permanent, remaining, age.
// Operators: = != ~ (contains) ~= (regex) > < >= <=.
//
//	message~deploy             message contains "deploy"
//	color=red                  red messages
//	permanent=true             pinned messages
//	remaining<2s               timed messages about to expire
//	age>1m,message~=(?i)build  older build messages
func ParseFilter(expr string) (*FilterExpr, error) {
	f := &FilterExpr{}
	for _, part := range strings.Split(expr, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, cond)
	}
	return f, nil
}

// twoCharOps are tried before their one character prefixes.
var twoCharOps = []FilterOp{FilterOpNotEqual, FilterOpGreaterEq, FilterOpLessEq, FilterOpRegex}

// parseCondition splits s at the first operator character, so operator
// characters inside the value are left alone.
func parseCondition(s string) (FilterCondition, error) {
	idx := strings.IndexAny(s, "=!~<>")
	if idx <= 0 {
		return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing field or operator)", s)
	}

	op := FilterOp(s[idx : idx+1])
	for _, two := range twoCharOps {
		if strings.HasPrefix(s[idx:], string(two)) {
			op = two
			break
		}
	}
	if op == "!" {
		return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (unknown operator)", s)
	}

	cond := FilterCondition{
		Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
		Operator: op,
		Value:    strings.TrimSpace(s[idx+len(op):]),
	}
	if err := cond.init(); err != nil {
		return FilterCondition{}, err
	}
	return cond, nil
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "message", "msg", "text":
		c.Field = "message"
	case "color", "colour":
		c.Field = "color"
		if c.Operator != FilterOpRegex && c.Operator != FilterOpContains {
			color, err := model.ParseColor(c.Value)
			if err != nil {
				return fmt.Errorf("invalid color filter: %w", err)
			}
			c.colorVal = color
		}
	case "permanent", "pinned":
		c.Field = "permanent"
		c.boolVal = parseBool(c.Value)
	case "remaining", "left":
		c.Field = "remaining"
		d, err := time.ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid remaining value: %w", err)
		}
		c.durationVal = d
	case "age":
		d, err := time.ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid age value: %w", err)
		}
		c.durationVal = d
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// parseBool parses various boolean representations.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y", "t":
		return true
	default:
		return false
	}
}

// Match tests if a notification matches the filter expression.
func (f *FilterExpr) Match(n model.Notification, now time.Time) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(n, now) {
			return false
		}
	}
	return true
}

// Match tests if a notification matches this single condition.
// Permanent notifications never match a remaining comparison.
func (c *FilterCondition) Match(n model.Notification, now time.Time) bool {
	switch c.Field {
	case "message":
		return c.matchString(n.Message)
	case "color":
		if c.Operator == FilterOpRegex || c.Operator == FilterOpContains {
			return c.matchString(n.Color.Hex())
		}
		return c.matchColor(n.Color)
	case "permanent":
		return c.matchBool(n.Permanent)
	case "remaining":
		if n.Permanent {
			return false
		}
		return c.matchDuration(n.Remaining)
	case "age":
		return c.matchDuration(now.Sub(n.CreatedAt))
	default:
		return false
	}
}

func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

func (c *FilterCondition) matchColor(fieldValue model.Color) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.colorVal
	case FilterOpNotEqual:
		return fieldValue != c.colorVal
	default:
		return false
	}
}

func (c *FilterCondition) matchBool(fieldValue bool) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.boolVal
	case FilterOpNotEqual:
		return fieldValue != c.boolVal
	default:
		return false
	}
}

func (c *FilterCondition) matchDuration(fieldValue time.Duration) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.durationVal
	case FilterOpNotEqual:
		return fieldValue != c.durationVal
	case FilterOpGreater:
		return fieldValue > c.durationVal
	case FilterOpLess:
		return fieldValue < c.durationVal
	case FilterOpGreaterEq:
		return fieldValue >= c.durationVal
	case FilterOpLessEq:
		return fieldValue <= c.durationVal
	default:
		return false
	}
}

// FilterWithExpr filters notifications using a filter expression, keeping
// their order.
func FilterWithExpr(notifications []model.Notification, expr *FilterExpr, now time.Time) []model.Notification {
	if expr == nil || len(expr.Conditions) == 0 {
		return notifications
	}

	result := make([]model.Notification, 0, len(notifications))
	for _, n := range notifications {
		if expr.Match(n, now) {
			result = append(result, n)
		}
	}
	return result
}

// Limit keeps the newest n notifications (0 = all).
func Limit(notifications []model.Notification, n int) []model.Notification {
	if n <= 0 || len(notifications) <= n {
		return notifications
	}
	return notifications[len(notifications)-n:]
}
