package tablex

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxLevel is the deepest hierarchy level of a statement.
const MaxLevel = 5

// Indent is prefixed to comparative item names once per depth.
const Indent = "　"

// Periods holds the labels of the two compared reporting periods.
type Periods struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// StatementMetadata describes a hierarchical statement.
type StatementMetadata struct {
	ReportType string  `json:"reportType"`
	Unit       string  `json:"unit"`
	Periods    Periods `json:"periods"`
}

// Node is one line item of a hierarchical statement.
type Node struct {
	ItemName       string  `json:"itemName"`
	Level          int     `json:"level"`
	XBRLTag        string  `json:"xbrlTag,omitempty"`
	PreviousPeriod Value   `json:"previousPeriod"`
	CurrentPeriod  Value   `json:"currentPeriod"`
	Children       []*Node `json:"children"`
}

// Statement is a financial statement rebuilt as a tree from a flat table.
type Statement struct {
	Metadata    StatementMetadata `json:"metadata"`
	Data        []*Node           `json:"data"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Walk visits every node in pre-order with its 0-based depth.
func (s *Statement) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(s.Data, 0)
}

// ComparativeRow is one line of the flattened period-over-period view.
type ComparativeRow struct {
	ItemName       string   `json:"itemName"`
	Level          int      `json:"level"`
	XBRLTag        string   `json:"xbrlTag,omitempty"`
	PreviousPeriod Value    `json:"previousPeriod"`
	CurrentPeriod  Value    `json:"currentPeriod"`
	Change         *float64 `json:"change"`
	ChangeRate     *string  `json:"changeRate"`
}

// Comparative flattens the statement in pre-order, indenting item names by
// depth and computing deltas where both periods are numeric. The change
// rate is null when the previous period is zero.
func Comparative(s *Statement) []ComparativeRow {
	var rows []ComparativeRow
	s.Walk(func(n *Node, depth int) {
		row := ComparativeRow{
			ItemName:       strings.Repeat(Indent, depth) + n.ItemName,
			Level:          n.Level,
			XBRLTag:        n.XBRLTag,
			PreviousPeriod: n.PreviousPeriod,
			CurrentPeriod:  n.CurrentPeriod,
		}
		if n.PreviousPeriod.IsNumber() && n.CurrentPeriod.IsNumber() {
			change := n.CurrentPeriod.Number - n.PreviousPeriod.Number
			row.Change = &change
			if n.PreviousPeriod.Number != 0 {
				rate := fmt.Sprintf("%.2f%%", change/math.Abs(n.PreviousPeriod.Number)*100)
				row.ChangeRate = &rate
			}
		}
		rows = append(rows, row)
	})
	return rows
}

// Restructurer rebuilds a hierarchical statement from flat records.
type Restructurer interface {
	// Restructure treats records[0] as the period label row and builds the
	// tree from the remaining records.
	Restructure(records []Record) (*Statement, error)
}

// RestructureResult reports the outcome of restructuring untrusted JSON.
// Statement is set only when Success is true; Message explains a failure.
type RestructureResult struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Statement *Statement `json:"statement,omitempty"`
}

// JSONRestructurer restructures a JSON array of flat records. Malformed
// input and restructuring errors are reported in the result, not returned.
type JSONRestructurer interface {
	RestructureJSON(data []byte) RestructureResult
}

// StoredStatement is a statement persisted for a table.
type StoredStatement struct {
	ID        string     `json:"id"`
	TableID   string     `json:"tableId"`
	Statement *Statement `json:"statement"`
	CreatedAt time.Time  `json:"createdAt"`
}

// StatementService represents a service for managing stored statements.
type StatementService interface {
	// CreateStatement stores a statement for a table.
	CreateStatement(ctx context.Context, s *StoredStatement) error

	// FindStatementByTableID returns the most recent statement of a table.
	// Returns ENOTFOUND if none exists.
	FindStatementByTableID(ctx context.Context, tableID string) (*StoredStatement, error)
}
